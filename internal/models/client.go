package models

// Client types
const (
	ClientTypeIndividual = "individual"
	ClientTypeCompany    = "company"
)

// Client status constants
const (
	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
	ClientStatusProspect = "prospect"
)

// ValidClientTypes lists the accepted client types.
var ValidClientTypes = []string{ClientTypeIndividual, ClientTypeCompany}

// ValidClientStatuses lists the accepted client statuses.
var ValidClientStatuses = []string{ClientStatusActive, ClientStatusInactive, ClientStatusProspect}
