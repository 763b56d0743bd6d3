package ops

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/hpungsan/folio/internal/docs"
)

// DirStatus describes one configured directory.
type DirStatus struct {
	Path   string   `json:"path"`
	Exists bool     `json:"exists"`
	Files  []string `json:"files"`
}

// FileStatus describes one configured file.
type FileStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// Directories holds the detailed status of every configured directory.
type Directories struct {
	Docs      DirStatus `json:"docs"`
	Private   DirStatus `json:"private"`
	Templates DirStatus `json:"templates"`
	Projects  DirStatus `json:"projects"`
	Media     DirStatus `json:"media"`
}

// CheckPathsOutput is a debugging view of where folio looks for its inputs.
// The flat fields are the shape the portfolio frontend polls to decide
// whether any documents are available.
type CheckPathsOutput struct {
	DocsDir       string   `json:"docs_dir"`
	PrivateDir    string   `json:"private_dir"`
	DocsExists    bool     `json:"docs_exists"`
	PrivateExists bool     `json:"private_exists"`
	PrivateFiles  []string `json:"private_files"`
	TemplateFiles []string `json:"template_files"`

	WorkingDir  string      `json:"working_dir"`
	Directories Directories `json:"directories"`
	EmailLog    FileStatus  `json:"email_log"`

	// DocumentSource is "Private" or "Template", whichever LoadAll would use.
	DocumentSource docs.SourceType `json:"document_source"`
	Skipped        []docs.Skip     `json:"skipped,omitempty"`
}

// CheckPaths lists the configured directories and what they contain.
func CheckPaths(ctx context.Context, d *Deps) (*CheckPathsOutput, error) {
	cfg := d.Config
	wd, _ := os.Getwd()

	dirs := Directories{
		Docs:      dirStatus(cfg.DocsDir),
		Private:   dirStatus(cfg.PrivateDir),
		Templates: dirStatus(cfg.TemplatesDir),
		Projects:  dirStatus(cfg.ProjectsDir),
		Media:     dirStatus(cfg.MediaDir()),
	}

	out := &CheckPathsOutput{
		DocsDir:       dirs.Docs.Path,
		PrivateDir:    dirs.Private.Path,
		DocsExists:    dirs.Docs.Exists,
		PrivateExists: dirs.Private.Exists,
		PrivateFiles:  dirs.Private.Files,
		TemplateFiles: dirs.Templates.Files,
		WorkingDir:    wd,
		Directories:   dirs,
		EmailLog:      fileStatus(cfg.EmailLogPath),
	}

	loaded := d.Docs.LoadAll(ctx)
	out.DocumentSource = loaded.Source
	out.Skipped = loaded.Skipped
	return out, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func dirStatus(dir string) DirStatus {
	status := DirStatus{Path: absPath(dir), Files: []string{}}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return status
	}
	status.Exists = true
	for _, e := range entries {
		status.Files = append(status.Files, e.Name())
	}
	sort.Strings(status.Files)
	return status
}

func fileStatus(path string) FileStatus {
	_, err := os.Stat(path)
	return FileStatus{Path: absPath(path), Exists: err == nil}
}
