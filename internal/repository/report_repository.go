package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/compozy/sprint-branches/internal/domain"
	"github.com/gofrs/flock"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/afero"
)

const (
	// ReportSchemaVersion defines the current schema version for report files
	ReportSchemaVersion = "1.0.0"
	// ReportFilePermissions defines the permissions for report files
	ReportFilePermissions = 0600
	// ReportDirPermissions defines the permissions for the report directory
	ReportDirPermissions = 0700
	// LockTimeout defines the maximum time to wait for the report lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock attempts
	LockRetryInterval = 100 * time.Millisecond
)

var errLockBusy = errors.New("report lock is held by another process")

// ReportRepository stores run reports
type ReportRepository interface {
	Save(ctx context.Context, report *domain.RunReport) error
	LoadLatest(ctx context.Context) (*domain.RunReport, error)
}

// ReportMetadata contains metadata about the report file
type ReportMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	WrittenAt     time.Time `json:"written_at"`
}

// ReportWrapper wraps the report with metadata
type ReportWrapper struct {
	Metadata ReportMetadata    `json:"metadata"`
	Report   *domain.RunReport `json:"report"`
}

// JSONReportRepository implements ReportRepository with one JSON file per run
type JSONReportRepository struct {
	fs        afero.Fs
	reportDir string
}

// NewJSONReportRepository creates a report repository rooted at reportDir
func NewJSONReportRepository(fs afero.Fs, reportDir string) ReportRepository {
	if reportDir == "" {
		reportDir = ".sprint-branches"
	}
	return &JSONReportRepository{fs: fs, reportDir: reportDir}
}

// Save writes the report atomically and points the latest link at it
func (r *JSONReportRepository) Save(ctx context.Context, report *domain.RunReport) error {
	unlock, err := r.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()
	reportData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report for checksum: %w", err)
	}
	wrapper := ReportWrapper{
		Metadata: ReportMetadata{
			SchemaVersion: ReportSchemaVersion,
			Checksum:      checksum(reportData),
			WrittenAt:     time.Now(),
		},
		Report: report,
	}
	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report wrapper: %w", err)
	}
	filename := r.reportFilename(report.RunID)
	if err := r.writeAtomic(filename, data); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	if err := r.writeAtomic(r.latestLink(), []byte(filepath.Base(filename))); err != nil {
		return fmt.Errorf("failed to update latest link: %w", err)
	}
	return nil
}

// LoadLatest reads and verifies the most recently saved report
func (r *JSONReportRepository) LoadLatest(ctx context.Context) (*domain.RunReport, error) {
	unlock, err := r.lock(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()
	target, err := afero.ReadFile(r.fs, r.latestLink())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no run report found in %s", r.reportDir)
		}
		return nil, fmt.Errorf("failed to read latest link: %w", err)
	}
	data, err := afero.ReadFile(r.fs, filepath.Join(r.reportDir, filepath.Base(string(target))))
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var wrapper ReportWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report wrapper: %w", err)
	}
	if wrapper.Metadata.SchemaVersion != ReportSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			ReportSchemaVersion, wrapper.Metadata.SchemaVersion)
	}
	reportData, err := json.Marshal(wrapper.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report for checksum validation: %w", err)
	}
	if wrapper.Metadata.Checksum != checksum(reportData) {
		return nil, fmt.Errorf("report checksum mismatch: data may be corrupted")
	}
	return wrapper.Report, nil
}

// lock takes the directory lock, shared for reads, retrying until LockTimeout
func (r *JSONReportRepository) lock(ctx context.Context, shared bool) (func(), error) {
	if err := r.fs.MkdirAll(r.reportDir, ReportDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to ensure report directory: %w", err)
	}
	fileLock := flock.New(filepath.Join(r.reportDir, ".report.lock"))
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	backoff := retry.WithMaxDuration(LockTimeout, retry.NewConstant(LockRetryInterval))
	err := retry.Do(lockCtx, backoff, func(_ context.Context) error {
		var (
			locked bool
			err    error
		)
		if shared {
			locked, err = fileLock.TryRLock()
		} else {
			locked, err = fileLock.TryLock()
		}
		if err != nil {
			return err
		}
		if !locked {
			return retry.RetryableError(errLockBusy)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to acquire report lock: %w", err)
	}
	return func() {
		if unlockErr := fileLock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to unlock report directory: %v\n", unlockErr)
		}
	}, nil
}

func (r *JSONReportRepository) writeAtomic(filename string, data []byte) error {
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data, ReportFilePermissions); err != nil {
		return err
	}
	if err := r.fs.Rename(tempFile, filename); err != nil {
		if removeErr := r.fs.Remove(tempFile); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp file: %v\n", removeErr)
		}
		return err
	}
	return nil
}

func (r *JSONReportRepository) reportFilename(runID string) string {
	return filepath.Join(r.reportDir, fmt.Sprintf("run-%s.json", runID))
}

func (r *JSONReportRepository) latestLink() string {
	return filepath.Join(r.reportDir, "latest.txt")
}

// checksum calculates SHA-256 checksum of data
func checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
