package models

import (
	"encoding/json"
	"time"
)

type BuildingStatus string

const (
	BuildingStatusActive BuildingStatus = "active"
	BuildingStatusPaused BuildingStatus = "paused"
	BuildingStatusError  BuildingStatus = "error"
)

// Building is the persisted registration of a building: its topology plus
// pipeline lifecycle state.
type Building struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Region    string         `json:"region"`
	Status    BuildingStatus `json:"status"`
	Topology  *Topology      `json:"topology,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewBuilding(name, region string, topo *Topology) *Building {
	now := time.Now()
	b := &Building{
		ID:        NewUUID(),
		Name:      name,
		Region:    region,
		Status:    BuildingStatusActive,
		Topology:  topo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if topo != nil {
		topo.BuildingID = b.ID
	}
	return b
}

func (b *Building) IsActive() bool {
	return b.Status == BuildingStatusActive
}

func (b *Building) TopologyJSON() ([]byte, error) {
	if b.Topology == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b.Topology)
}

func (b *Building) ParseTopology(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	b.Topology = &Topology{}
	return json.Unmarshal(data, b.Topology)
}
