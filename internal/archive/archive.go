// Package archive moves audio files that no sentence references into a
// timestamped backup directory.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// DefaultBackupRoot is the parent of the timestamped backup directories
var DefaultBackupRoot = filepath.Join("data", "audio-backup-orphans")

// BackupDir returns a fresh timestamped directory path below root
func BackupDir(root string) string {
	dir := filepath.Join(root, time.Now().Format("20060102-150405"))
	// Check if it already exists (unlikely but possible)
	if _, err := os.Stat(dir); err == nil {
		dir = filepath.Join(root, time.Now().Format("20060102-150405.000000"))
	}
	return dir
}

// Totals are the move-orphan-audio counters
type Totals struct {
	CorporaScanned   int `json:"corporaScanned"`
	ReferencedAudio  int `json:"referencedAudio"`
	AudioFilesOnDisk int `json:"audioFilesOnDisk"`
	Orphaned         int `json:"orphaned"`
	Moved            int `json:"moved"`
}

// Report is written to the --report path
type Report struct {
	StartedAt string   `json:"startedAt"`
	DryRun    bool     `json:"dryRun"`
	CorpusDir string   `json:"corpusDir"`
	AudioDir  string   `json:"audioDir"`
	BackupDir string   `json:"backupDir"`
	Totals    Totals   `json:"totals"`
	Orphaned  []string `json:"orphaned"`
}

// OrphanPass collects the audio file names referenced by the corpora it
// visits. Move then relocates everything else.
type OrphanPass struct {
	audioDir   string
	backupDir  string
	dryRun     bool
	referenced map[string]bool
	report     Report
}

// NewOrphanPass creates the orphan audio collector. An empty backupDir
// selects a fresh directory below DefaultBackupRoot.
func NewOrphanPass(corpusDir, audioDir, backupDir string, dryRun bool) *OrphanPass {
	if backupDir == "" {
		backupDir = BackupDir(DefaultBackupRoot)
	}
	return &OrphanPass{
		audioDir:   audioDir,
		backupDir:  backupDir,
		dryRun:     dryRun,
		referenced: make(map[string]bool),
		report: Report{
			StartedAt: report.Now(),
			DryRun:    dryRun,
			CorpusDir: report.RelPath(corpusDir),
			AudioDir:  report.RelPath(audioDir),
			BackupDir: report.RelPath(backupDir),
			Orphaned:  []string{},
		},
	}
}

// Name returns the pass name
func (p *OrphanPass) Name() string {
	return "move-orphan-audio"
}

// Apply records the audio references of one corpus file
func (p *OrphanPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	p.report.Totals.CorporaScanned++
	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		if name := strings.TrimSpace(s.Audio); name != "" {
			p.referenced[name] = true
		}
		return nil
	})
	p.report.Totals.ReferencedAudio = len(p.referenced)
	return false, err
}

// Move relocates every unreferenced .mp3 of the audio directory into the
// backup directory. Nothing is moved on a dry run.
func (p *OrphanPass) Move() error {
	entries, err := os.ReadDir(p.audioDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("audio dir not found: %s", p.audioDir)
		}
		return fmt.Errorf("failed to read audio directory: %w", err)
	}

	var onDisk, orphaned []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".mp3") {
			continue
		}
		onDisk = append(onDisk, e.Name())
		if !p.referenced[e.Name()] {
			orphaned = append(orphaned, e.Name())
		}
	}
	sort.Strings(orphaned)

	p.report.Totals.AudioFilesOnDisk = len(onDisk)
	p.report.Totals.Orphaned = len(orphaned)
	p.report.Orphaned = append(p.report.Orphaned[:0], orphaned...)

	if p.dryRun || len(orphaned) == 0 {
		return nil
	}

	if err := os.MkdirAll(p.backupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	for _, name := range orphaned {
		src := filepath.Join(p.audioDir, name)
		dest := filepath.Join(p.backupDir, name)
		if err := os.Rename(src, dest); err != nil {
			return fmt.Errorf("failed to move orphan audio %s: %w", name, err)
		}
		p.report.Totals.Moved++
	}
	return nil
}

// Report returns the accumulated report
func (p *OrphanPass) Report() *Report {
	return &p.report
}

// Summary returns the console summary
func (p *OrphanPass) Summary() *report.Summary {
	return report.NewSummary("Move orphan audio ("+report.Mode(p.dryRun)+")").
		Add("Corpora scanned", p.report.Totals.CorporaScanned).
		Add("Referenced audio", p.report.Totals.ReferencedAudio).
		Add("Audio files on disk", p.report.Totals.AudioFilesOnDisk).
		Add("Orphaned", p.report.Totals.Orphaned).
		Add("Moved", p.report.Totals.Moved).
		Add("Backup dir", p.report.BackupDir)
}
