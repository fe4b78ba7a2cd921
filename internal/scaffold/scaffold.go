// Package scaffold personalizes a freshly cloned document template:
// title and author metadata, optional removal of the sample content, and
// an optional fresh git history.
package scaffold

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"

	texerrors "git.home.luguber.info/inful/texkit/internal/errors"
	"git.home.luguber.info/inful/texkit/internal/logfields"
)

// Template placeholders as they appear in the shipped sources.
const (
	placeholderTitle  = "Document Title"
	placeholderAuthor = "Author Name"
)

// Options selects which personalization steps to run.
type Options struct {
	// Root is the project directory; empty means the current directory.
	Root string
	// Title replaces the template title when non-empty.
	Title string
	// Author replaces the template author when non-empty.
	Author string
	// ClearIntro replaces the sample introduction with a stub.
	ClearIntro bool
	// ClearBib empties the sample bibliography.
	ClearBib bool
	// ResetGit discards the template's history and starts a fresh repo.
	ResetGit bool
}

// StepResult records the outcome of one personalization step.
type StepResult struct {
	Name string
	Done bool
	Err  error
}

// Result aggregates all step outcomes.
type Result struct {
	Steps []StepResult
}

// Succeeded reports whether every attempted step completed.
func (r *Result) Succeeded() bool {
	for _, step := range r.Steps {
		if step.Err != nil {
			return false
		}
	}
	return true
}

func (r *Result) add(name string, err error) {
	r.Steps = append(r.Steps, StepResult{Name: name, Done: err == nil, Err: err})
	if err != nil {
		slog.Warn("init step failed", slog.String("step", name), logfields.Error(err))
	} else {
		slog.Info("init step completed", slog.String("step", name))
	}
}

// Run executes the selected steps. A failing step is recorded and the
// remaining steps still run, so one bad file does not abort the whole
// personalization.
func Run(opts Options) *Result {
	root := opts.Root
	if root == "" {
		root = "."
	}

	result := &Result{}

	if opts.Title != "" || opts.Author != "" {
		result.add("metadata", applyMetadata(root, opts.Title, opts.Author))
	}
	if opts.ClearIntro {
		result.add("clear-introduction", writeIntroductionStub(root))
	}
	if opts.ClearBib {
		result.add("clear-bibliography", clearBibliography(root))
	}
	if opts.ResetGit {
		result.add("reset-git", resetGitHistory(root))
	}

	return result
}

// applyMetadata rewrites the title/author placeholders in the main file
// and in the hyperref PDF metadata.
func applyMetadata(root, title, author string) error {
	replacements := map[string]string{}
	if title != "" {
		replacements[`\title{`+placeholderTitle+`}`] = `\title{` + title + `}`
		replacements[`pdftitle={`+placeholderTitle+`}`] = `pdftitle={` + title + `}`
		replacements[`pdfsubject={`+placeholderTitle+`}`] = `pdfsubject={` + title + `}`
	}
	if author != "" {
		replacements[`\author{`+placeholderAuthor+`}`] = `\author{` + author + `}`
		replacements[`pdfauthor={`+placeholderAuthor+`}`] = `pdfauthor={` + author + `}`
	}

	targets := []string{
		filepath.Join(root, "src", "main.tex"),
		filepath.Join(root, "src", "preamble", "packages.tex"),
	}
	var applied int
	for _, target := range targets {
		n, err := replaceInFile(target, replacements)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		applied += n
	}
	if applied == 0 {
		return fmt.Errorf("no template placeholders found under %s", filepath.Join(root, "src"))
	}
	return nil
}

func replaceInFile(path string, replacements map[string]string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content := string(data)
	applied := 0
	for old, repl := range replacements {
		if strings.Contains(content, old) {
			content = strings.ReplaceAll(content, old, repl)
			applied++
		}
	}
	if applied == 0 {
		return 0, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return applied, os.WriteFile(path, []byte(content), info.Mode().Perm())
}

const introductionStub = `\chapter{Introduction}
\label{ch:introduction}

% Start writing here.
`

func writeIntroductionStub(root string) error {
	path := filepath.Join(root, "src", "chapters", "introduction.tex")
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(introductionStub), 0o644)
}

func clearBibliography(root string) error {
	path := filepath.Join(root, "src", "bibliography.bib")
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("% Add your references here.\n"), 0o644)
}

// resetGitHistory removes the template's .git directory and initializes
// a fresh repository in its place.
func resetGitHistory(root string) error {
	gitDir := filepath.Join(root, ".git")
	if err := os.RemoveAll(gitDir); err != nil {
		return texerrors.GitResetError(err)
	}
	if _, err := git.PlainInit(root, false); err != nil {
		return texerrors.GitResetError(err)
	}
	return nil
}
