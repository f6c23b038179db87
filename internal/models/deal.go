package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Park is a property tracked by the acquisitions CRM
type Park struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	City      *string   `json:"city"`
	State     *string   `json:"state"`
	ZipCode   *string   `json:"zip_code"`
	PadCount  int       `json:"pad_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lead links an owner conversation to a park
type Lead struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParkID    uuid.UUID `gorm:"type:uuid;index" json:"park_id"`
	Park      Park      `json:"-"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Deal is an acquisition opportunity under evaluation
type Deal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LeadID    uuid.UUID `gorm:"type:uuid;index" json:"lead_id"`
	Lead      Lead      `json:"-"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnderwritingRun is the audit record of one engine run
type UnderwritingRun struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DealID       *uuid.UUID `gorm:"type:uuid;index" json:"deal_id"`
	PropertyName string     `json:"property_name"`
	Fingerprint  string     `gorm:"index" json:"fingerprint"`
	Verdict      string     `json:"verdict"`
	IRR          *float64   `json:"irr"`
	DSCR         float64    `json:"dscr"`
	CapRate      float64    `json:"cap_rate"`
	CashOnCash   float64    `json:"cash_on_cash"`
	Request      string     `gorm:"type:text" json:"request"`
	Response     string     `gorm:"type:text" json:"response"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewUnderwritingRun builds the audit record for a completed run
func NewUnderwritingRun(id uuid.UUID, fingerprint string, req RunRequest, resp RunResponse) (*UnderwritingRun, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run request: %w", err)
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run response: %w", err)
	}

	return &UnderwritingRun{
		ID:           id,
		DealID:       req.DealID,
		PropertyName: resp.DealSummary.PropertyName,
		Fingerprint:  fingerprint,
		Verdict:      resp.Recommendation.Verdict.String(),
		IRR:          resp.Projection.IRR,
		DSCR:         resp.BaseCase.Metrics.DSCR,
		CapRate:      resp.BaseCase.Metrics.CapRate,
		CashOnCash:   resp.BaseCase.Metrics.CashOnCash,
		Request:      string(reqJSON),
		Response:     string(respJSON),
	}, nil
}
