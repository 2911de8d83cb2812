// Package tenant contains the pure business logic for choosing the current
// company and evaluating profile permissions.
package tenant

// SelectionResult is the outcome of choosing the current company.
type SelectionResult struct {
	CompanyID string // empty when no company is available
	FromSaved bool   // true when the remembered company was still available
}

// SelectCurrent picks the current company from the companies the user belongs
// to. The remembered company wins when it is still in the list; otherwise the
// first company is used. companyIDs must be in profile order.
func SelectCurrent(savedID string, companyIDs []string) SelectionResult {
	if savedID != "" {
		for _, id := range companyIDs {
			if id == savedID {
				return SelectionResult{CompanyID: id, FromSaved: true}
			}
		}
	}
	if len(companyIDs) > 0 {
		return SelectionResult{CompanyID: companyIDs[0]}
	}
	return SelectionResult{}
}

// CanSwitch evaluates whether the user may switch to targetID.
func CanSwitch(targetID string, companyIDs []string) GuardResult {
	if targetID == "" {
		return GuardResult{Allowed: false, Reason: "company id is required"}
	}
	for _, id := range companyIDs {
		if id == targetID {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  "company " + targetID + " is not available for this user",
	}
}
