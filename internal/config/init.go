package config

import (
	"fmt"
	"os"
)

const sampleConfig = `# texkit project configuration
source:
  dir: src
  main: main.tex

output:
  directory: build

engine:
  # "docker" runs the toolchain inside the pinned TeX Live image,
  # "local" uses the host installation.
  mode: docker
  image: texlive/texlive:latest-full
  build_timeout: 10m
  local_timeout: 5m
  lint_timeout: 1m

watch:
  debounce: 1s
  extensions: [.tex, .bib, .sty, .cls]
  extra_dirs: [styles, assets]
  initial_build: true

lint:
  verbosity: 1
  strict: false
  lacheck: false

history:
  path: .texkit/history.db
  disabled: false
`

// WriteSample writes a commented sample configuration file.
func WriteSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
