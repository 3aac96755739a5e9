// Package influx ships scoring telemetry to InfluxDB. When the server is
// unreachable, points fall through to a gzipped line-protocol backup file so
// a scoring line without connectivity loses nothing.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// Bucket names for scoring telemetry.
const (
	BucketScoringRuns       = "scoring_runs"
	BucketCheckpointResults = "checkpoint_results"
)

// DefaultBucketNames are the InfluxDB buckets used by the scoring line.
var DefaultBucketNames = []string{
	BucketScoringRuns,
	BucketCheckpointResults,
}

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	BucketNames  []string
	Logger       zerolog.Logger
	BackupPath   string
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		IsValid:     false,
		BucketNames: DefaultBucketNames,
		Logger:      log,
		BackupPath:  backupPath,
	}
}

// Connect establishes a connection to InfluxDB.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influxdb.Enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(context.Background())

	if err != nil || !running {
		m.IsValid = false
		// create backup writer
		if m.BackupWriter == nil {
			m.Logger.Info().Str("backupPath", m.BackupPath).
				Msg("Failed to initialize InfluxDB client, writing to backup file")

			file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %v", err)
			}
			m.BackupWriter = gzip.NewWriter(file)
		}
	} else {
		m.IsValid = true
	}

	if m.IsValid {
		err = m.setupOrganizationAndBuckets()
		if err != nil {
			return err
		}
		m.CreateWriters()
		m.Logger.Info().Msg("InfluxDB client initialized")
	} else {
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
	}

	return nil
}

func (m *Manager) setupOrganizationAndBuckets() error {
	ctx := context.Background()
	orgName := viper.GetString("influx.org")

	// ensure org exists
	_, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		_, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	// get influxOrg
	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Error().Err(err).Str("org", orgName).Msg("Error getting organization")
		return err
	}

	// ensure buckets exist with 90 day retention
	for _, bucket := range m.BucketNames {
		_, err = m.Client.BucketsAPI().FindBucketByName(ctx, bucket)
		if err != nil {
			m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

			rule := domain.RetentionRuleTypeExpire
			_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
				Type:         &rule,
				EverySeconds: 60 * 60 * 24 * 90, // 90 days
			})
			if err != nil {
				m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
				return err
			}
		}
	}

	return nil
}

// CreateWriters creates write APIs for all configured buckets.
func (m *Manager) CreateWriters() {
	orgName := viper.GetString("influx.org")
	for _, bucket := range m.BucketNames {
		m.Logger.Trace().Str("bucket", bucket).Msg("Creating InfluxDB writer")
		m.Writers[bucket] = m.Client.WriteAPI(orgName, bucket)

		errorsCh := m.Writers[bucket].Errors()
		go func(bucketName string, errorsCh <-chan error) {
			for writeErr := range errorsCh {
				m.Logger.Error().Err(writeErr).Str("bucket", bucketName).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, errorsCh)

		m.Logger.Trace().Str("bucket", bucket).Msg("InfluxDB writer created")
	}

	m.Logger.Debug().Msg("InfluxDB writers initialized")
}

// WritePoint writes a point to InfluxDB or backup file.
func (m *Manager) WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error {
	if m.IsValid {
		if _, ok := m.Writers[bucket]; !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		m.Writers[bucket].WritePoint(point)
	} else {
		if m.BackupWriter == nil {
			return fmt.Errorf("influxDB client not initialized and backup writer not available")
		}

		lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Duration(1*time.Nanosecond))
		_, err := m.BackupWriter.Write([]byte(lineProtocol + "\n"))
		if err != nil {
			return fmt.Errorf("error writing to InfluxDB backup file: %s", err)
		}
	}

	return nil
}

// WriteScore writes the aggregate outcome of one scoring run plus one point
// per checkpoint result.
func (m *Manager) WriteScore(ctx context.Context, pilot string, result nav.ScoreResult) error {
	if err := m.WritePoint(ctx, BucketScoringRuns, ScorePoint(pilot, result)); err != nil {
		return err
	}
	for _, p := range CheckpointPoints(pilot, result) {
		if err := m.WritePoint(ctx, BucketCheckpointResults, p); err != nil {
			return err
		}
	}
	return nil
}

// ScorePoint builds the aggregate measurement for one scoring run.
func ScorePoint(pilot string, result nav.ScoreResult) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("scoring_run").
		AddTag("route", result.RouteName).
		AddTag("pilot", pilot).
		AddField("overall_score", result.OverallScore).
		AddField("leg_time_penalty", result.LegTimePenalty).
		AddField("off_course_penalty", result.OffCoursePenalty).
		AddField("total_time_penalty", result.TotalTimePenalty).
		AddField("fuel_penalty", result.FuelPenalty).
		AddField("checkpoint_secrets_penalty", result.CheckpointSecretsPenalty).
		AddField("enroute_secrets_penalty", result.EnrouteSecretsPenalty).
		AddField("unresolved", result.HasUnresolved()).
		SetTime(result.GateTime)
}

// CheckpointPoints builds one measurement per checkpoint result.
func CheckpointPoints(pilot string, result nav.ScoreResult) []*influxdb2_write.Point {
	points := make([]*influxdb2_write.Point, 0, len(result.Checkpoints))
	for _, cp := range result.Checkpoints {
		points = append(points, influxdb2_write.NewPointWithMeasurement("checkpoint_result").
			AddTag("route", result.RouteName).
			AddTag("pilot", pilot).
			AddTag("checkpoint", cp.Name).
			AddTag("method", string(cp.Method)).
			AddField("seq", cp.Seq).
			AddField("deviation_sec", cp.DeviationSec).
			AddField("time_penalty", cp.TimePenalty).
			AddField("distance_nm", cp.DistanceNM).
			AddField("off_course_penalty", cp.OffCoursePenalty).
			AddField("within_radius", cp.WithinRadius).
			SetTime(cp.CrossingTime))
	}
	return points
}

// Close flushes writers and the backup file.
func (m *Manager) Close() error {
	for _, w := range m.Writers {
		w.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		return m.BackupWriter.Close()
	}
	return nil
}
