package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMain = `\documentclass{report}
\title{Document Title}
\author{Author Name}
\begin{document}
\maketitle
\end{document}
`

const samplePackages = `\usepackage[
  pdftitle={Document Title},
  pdfauthor={Author Name},
  pdfsubject={Document Title},
]{hyperref}
`

func seedTemplate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel, body string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write("src/main.tex", sampleMain)
	write("src/preamble/packages.tex", samplePackages)
	write("src/chapters/introduction.tex", "\\chapter{Introduction}\nSample prose about the template.\n")
	write("src/bibliography.bib", "@book{sample, title={Sample}}\n")
	return root
}

func TestRunAppliesMetadata(t *testing.T) {
	root := seedTemplate(t)

	result := Run(Options{Root: root, Title: "Flight Manual", Author: "A. Pilot"})
	require.True(t, result.Succeeded())

	main, err := os.ReadFile(filepath.Join(root, "src", "main.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(main), `\title{Flight Manual}`)
	assert.Contains(t, string(main), `\author{A. Pilot}`)
	assert.NotContains(t, string(main), "Document Title")

	pkgs, err := os.ReadFile(filepath.Join(root, "src", "preamble", "packages.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(pkgs), "pdftitle={Flight Manual}")
	assert.Contains(t, string(pkgs), "pdfauthor={A. Pilot}")
	assert.Contains(t, string(pkgs), "pdfsubject={Flight Manual}")
}

func TestRunClearsSampleContent(t *testing.T) {
	root := seedTemplate(t)

	result := Run(Options{Root: root, ClearIntro: true, ClearBib: true})
	require.True(t, result.Succeeded())

	intro, err := os.ReadFile(filepath.Join(root, "src", "chapters", "introduction.tex"))
	require.NoError(t, err)
	assert.NotContains(t, string(intro), "Sample prose")
	assert.Contains(t, string(intro), `\chapter{Introduction}`)

	bib, err := os.ReadFile(filepath.Join(root, "src", "bibliography.bib"))
	require.NoError(t, err)
	assert.NotContains(t, string(bib), "@book")
}

func TestRunResetsGitHistory(t *testing.T) {
	root := seedTemplate(t)
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)

	result := Run(Options{Root: root, ResetGit: true})
	require.True(t, result.Succeeded())

	repo, err := git.PlainOpen(root)
	require.NoError(t, err)
	_, err = repo.Head()
	assert.Error(t, err, "fresh repository has no commits")
}

func TestFailingStepDoesNotAbortSiblings(t *testing.T) {
	root := seedTemplate(t)
	require.NoError(t, os.Remove(filepath.Join(root, "src", "chapters", "introduction.tex")))

	result := Run(Options{Root: root, Title: "Still Applied", ClearIntro: true})
	assert.False(t, result.Succeeded())
	require.Len(t, result.Steps, 2)
	assert.NoError(t, result.Steps[0].Err)
	assert.Error(t, result.Steps[1].Err)

	main, err := os.ReadFile(filepath.Join(root, "src", "main.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "Still Applied")
}

func TestRunWithoutPlaceholders(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.tex"), []byte("\\documentclass{article}\n"), 0o644))

	result := Run(Options{Root: root, Title: "Anything"})
	assert.False(t, result.Succeeded())
}
