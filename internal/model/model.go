package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&CompetitionInfo{},
	&RouteRecord{},
	&CheckpointRecord{},
	&FlightRecord{},
	&ScoreRecord{},
}

// DatabaseModelsSQLite mirrors DatabaseModels for the local fallback database.
var DatabaseModelsSQLite = []interface{}{
	&CompetitionInfo{},
	&RouteRecord{},
	&CheckpointRecord{},
	&FlightRecord{},
	&ScoreRecord{},
}

// CompetitionInfo contains information about the hosting competition
type CompetitionInfo struct {
	gorm.Model
	CompetitionName string `json:"competitionName" gorm:"size:127"`
	Organizer       string `json:"organizer" gorm:"size:255"`
	Website         string `json:"website" gorm:"size:255"`
}

func (*CompetitionInfo) TableName() string {
	return "competition_infos"
}

// RouteRecord is a planned route with its start gate.
type RouteRecord struct {
	gorm.Model
	Name     string  `json:"name" gorm:"size:200;uniqueIndex"`
	GateName string  `json:"gateName" gorm:"size:200"`
	GateLat  float64 `json:"gateLat"`
	GateLon  float64 `json:"gateLon"`

	Checkpoints []CheckpointRecord `json:"checkpoints"`
}

func (*RouteRecord) TableName() string {
	return "routes"
}

// CheckpointRecord is one ordered checkpoint of a route.
type CheckpointRecord struct {
	gorm.Model
	RouteRecordID uint    `json:"-" gorm:"index"`
	Seq           int     `json:"seq" gorm:"index"`
	Name          string  `json:"name" gorm:"size:200"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	RadiusNM      float64 `json:"radiusNM"`
}

func (*CheckpointRecord) TableName() string {
	return "checkpoints"
}

// FlightRecord is one recorded flight submitted for scoring.
type FlightRecord struct {
	gorm.Model
	Pilot         string    `json:"pilot" gorm:"size:200"`
	Aircraft      string    `json:"aircraft" gorm:"size:200"`
	RouteRecordID uint      `json:"-" gorm:"index"`
	FlownAt       time.Time `json:"flownAt" gorm:"index:idx_flight_flown_at"`
	TrackSource   string    `json:"trackSource" gorm:"size:255"` // originating GPX file name
	TrackPoints   int       `json:"trackPoints"`

	Scores []ScoreRecord `json:"scores"`
}

func (*FlightRecord) TableName() string {
	return "flights"
}

// ScoreRecord is the persisted outcome of one scoring run. Breakdown holds
// the full per-checkpoint result as JSON.
type ScoreRecord struct {
	gorm.Model
	FlightRecordID uint      `json:"-" gorm:"index"`
	RouteName      string    `json:"routeName" gorm:"size:200;index"`
	ScoredAt       time.Time `json:"scoredAt"`

	OverallScore             float64 `json:"overallScore" gorm:"index"`
	LegTimePenalty           float64 `json:"legTimePenalty"`
	OffCoursePenalty         float64 `json:"offCoursePenalty"`
	TotalTimePenalty         float64 `json:"totalTimePenalty"`
	FuelPenalty              float64 `json:"fuelPenalty"`
	CheckpointSecretsPenalty float64 `json:"checkpointSecretsPenalty"`
	EnrouteSecretsPenalty    float64 `json:"enrouteSecretsPenalty"`
	HasUnresolved            bool    `json:"hasUnresolved"`

	Breakdown datatypes.JSON `json:"breakdown"`

	Flight *FlightRecord `json:"-" gorm:"foreignKey:FlightRecordID"`
}

func (*ScoreRecord) TableName() string {
	return "scores"
}
