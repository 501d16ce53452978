package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthurssouza42/fit/internal/catalog"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	Entries           int      `json:"entries"`
	LoadWarnings      []string `json:"load_warnings,omitempty"`
	PortionMismatches []string `json:"portion_mismatches,omitempty"`
	// UnknownFoods are entries whose food id is not in the current catalog.
	// They still count; the snapshot on the entry is authoritative.
	UnknownFoods    []string `json:"unknown_foods,omitempty"`
	CatalogWarnings []string `json:"catalog_warnings,omitempty"`
}

// Problems reports whether anything needs the user's attention. Unknown
// foods alone do not.
func (r DoctorReport) Problems() bool {
	return len(r.LoadWarnings) > 0 || len(r.PortionMismatches) > 0
}

// CreateBackup copies the data file at dataPath to outPath and writes a
// sha256 sidecar next to the copy.
func CreateBackup(dataPath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(dataPath) == "" {
		return BackupInfo{}, fmt.Errorf("data file path is required")
	}
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if err := copyFile(dataPath, outPath); err != nil {
		return BackupInfo{}, err
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

func RestoreBackup(backupPath, dataPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dataPath) == "" {
		return fmt.Errorf("backup path and data file path are required")
	}
	if !force {
		if _, err := os.Stat(dataPath); err == nil {
			return fmt.Errorf("target %s already exists; use --force to overwrite", dataPath)
		}
	}
	checksumFile := backupPath + ".sha256"
	if expected, err := os.ReadFile(checksumFile); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return copyFile(backupPath, dataPath)
}

// ListBackups lists files in dir with the given extension, newest first.
func ListBackups(dir, ext string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ext) {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RunDoctor checks the loaded diary, and the catalog when one is given, for
// problems that loading tolerated.
func RunDoctor(diary *Diary, cat *catalog.Catalog) DoctorReport {
	report := DoctorReport{LoadWarnings: diary.Warnings()}
	for e := range diary.Store.AllEntries() {
		report.Entries++
		if e.Portions != nil && e.Food.PortionGrams != nil {
			if math.Abs(*e.Portions**e.Food.PortionGrams-e.QuantityGrams) > 0.01 {
				report.PortionMismatches = append(report.PortionMismatches, e.ID)
			}
		}
		if cat != nil && e.Food.ID != "" {
			if _, ok := cat.ByID(e.Food.ID); !ok {
				report.UnknownFoods = append(report.UnknownFoods, e.ID)
			}
		}
	}
	if cat != nil {
		for _, w := range cat.Warnings() {
			report.CatalogWarnings = append(report.CatalogWarnings, w.String())
		}
	}
	return report
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
