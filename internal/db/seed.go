package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TimestampLayout is the text form of every stored timestamp. It is fixed
// width so that text ordering matches time ordering.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Demo account created by SeedDemo.
const (
	DemoEmail    = "demo@unasyscrm.com.br"
	DemoPassword = "demo123"
)

// SeedResult reports what SeedDemo created.
type SeedResult struct {
	CompanyID string
	UserID    string
	Skipped   bool // demo company already existed
}

// SeedDemo populates the database with a demo company, an admin user and
// sample CRM data. It is a no-op when the demo company already exists.
func SeedDemo(database *sql.DB, now time.Time) (*SeedResult, error) {
	var existing string
	err := database.QueryRow("SELECT id FROM companies WHERE email = ?", DemoEmail).Scan(&existing)
	if err == nil {
		return &SeedResult{CompanyID: existing, Skipped: true}, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("seed lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed password: %w", err)
	}

	tx, err := database.Begin()
	if err != nil {
		return nil, fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	ts := now.UTC().Format(TimestampLayout)
	companyID := uuid.NewString()
	userID := uuid.NewString()

	if _, err := tx.Exec(
		`INSERT INTO companies (id, name, email, phone, city, state, plan, status, settings, created_at, updated_at)
		 VALUES (?, 'Unasys Demo', ?, '+55 11 4000-0000', 'São Paulo', 'SP', 'professional', 'active', ?, ?, ?)`,
		companyID, DemoEmail, `{"modules":{"clients":true,"proposals":true,"tasks":true}}`, ts, ts,
	); err != nil {
		return nil, fmt.Errorf("seed company: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO users (id, email, password_hash, name, email_confirmed_at, created_at, updated_at)
		 VALUES (?, ?, ?, 'Demo', ?, ?, ?)`,
		userID, DemoEmail, string(hash), ts, ts, ts,
	); err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}

	perms, _ := json.Marshal(map[string]map[string]bool{
		"clients":   {"create": true, "read": true, "update": true, "delete": true},
		"proposals": {"create": true, "read": true, "update": true, "delete": true},
		"tasks":     {"create": true, "read": true, "update": true, "delete": true},
		"reports":   {"create": true, "read": true, "update": true, "delete": false},
	})
	if _, err := tx.Exec(
		`INSERT INTO profiles (id, user_id, company_id, role, permissions, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, 'admin', ?, 1, ?, ?)`,
		uuid.NewString(), userID, companyID, string(perms), ts, ts,
	); err != nil {
		return nil, fmt.Errorf("seed profile: %w", err)
	}

	// Clients
	clients := []struct{ kind, name, email, phone, status string }{
		{"company", "Padaria Central", "contato@padariacentral.com.br", "11 3333-1000", "active"},
		{"individual", "Mariana Lopes", "mariana@example.com", "11 98888-2000", "prospect"},
		{"company", "Oficina Rápida", "", "11 3222-3000", "inactive"},
	}
	clientIDs := make([]string, len(clients))
	for i, c := range clients {
		clientIDs[i] = uuid.NewString()
		created := now.Add(time.Duration(i) * time.Minute).UTC().Format(TimestampLayout)
		if _, err := tx.Exec(
			`INSERT INTO clients (id, company_id, type, name, email, phone, status, created_by, created_at, updated_at)
			 VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?)`,
			clientIDs[i], companyID, c.kind, c.name, c.email, c.phone, c.status, userID, created, created,
		); err != nil {
			return nil, fmt.Errorf("seed clients: %w", err)
		}
	}

	// Proposals
	proposals := []struct {
		client     int
		title      string
		status     string
		items      string
		total      float64
		validUntil string
	}{
		{0, "Site institucional", "approved", `[{"id":"` + uuid.NewString() + `","description":"Design","quantity":1,"unit_price":2500,"total":2500}]`, 2500, now.AddDate(0, 1, 0).Format("2006-01-02")},
		{1, "Consultoria mensal", "sent", `[{"id":"` + uuid.NewString() + `","description":"Horas","quantity":10,"unit_price":180,"total":1800}]`, 1800, now.AddDate(0, 0, -3).Format("2006-01-02")},
	}
	proposalIDs := make([]string, len(proposals))
	for i, p := range proposals {
		proposalIDs[i] = uuid.NewString()
		if _, err := tx.Exec(
			`INSERT INTO proposals (id, company_id, client_id, title, status, total_amount, discount, items, valid_until, created_by, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?)`,
			proposalIDs[i], companyID, clientIDs[p.client], p.title, p.status, p.total, p.items, p.validUntil, userID, ts, ts,
		); err != nil {
			return nil, fmt.Errorf("seed proposals: %w", err)
		}
	}

	// Tasks
	tasks := []struct{ title, status, priority, due, client string }{
		{"Enviar contrato", "todo", "high", now.AddDate(0, 0, -2).Format("2006-01-02"), clientIDs[0]},
		{"Ligar para Mariana", "in_progress", "medium", now.AddDate(0, 0, 2).Format("2006-01-02"), clientIDs[1]},
		{"Revisar proposta", "review", "urgent", now.AddDate(0, 0, -1).Format("2006-01-02"), ""},
		{"Cadastrar fornecedores", "done", "low", now.AddDate(0, 0, -5).Format("2006-01-02"), ""},
	}
	for _, t := range tasks {
		if _, err := tx.Exec(
			`INSERT INTO tasks (id, company_id, title, status, priority, due_date, client_id, created_by, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?)`,
			uuid.NewString(), companyID, t.title, t.status, t.priority, t.due, t.client, userID, ts, ts,
		); err != nil {
			return nil, fmt.Errorf("seed tasks: %w", err)
		}
	}

	// Notifications
	notifications := []struct{ kind, title, message string }{
		{"success", "Proposta aprovada", "Site institucional foi aprovada"},
		{"warning", "Tarefa atrasada", "Enviar contrato está atrasada"},
	}
	for _, n := range notifications {
		if _, err := tx.Exec(
			`INSERT INTO notifications (id, user_id, company_id, type, title, message, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), userID, companyID, n.kind, n.title, n.message, ts,
		); err != nil {
			return nil, fmt.Errorf("seed notifications: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("seed commit: %w", err)
	}
	return &SeedResult{CompanyID: companyID, UserID: userID}, nil
}
