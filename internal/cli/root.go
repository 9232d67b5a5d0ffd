// Package cli implements the syllabusctl command tree.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"coursepilot/internal/app"
	"coursepilot/internal/domain"
)

// Loader builds the application on first use.
type Loader func() (*app.App, error)

type state struct {
	load Loader
	app  *app.App
}

func (s *state) get() (*app.App, error) {
	if s.app != nil {
		return s.app, nil
	}
	if s.load == nil {
		return nil, errors.New("application not configured")
	}
	a, err := s.load()
	if err != nil {
		return nil, err
	}
	s.app = a
	return a, nil
}

// NewRootCmd returns the syllabusctl root command.
func NewRootCmd(load Loader) *cobra.Command {
	s := &state{load: load}

	root := &cobra.Command{
		Use:           "syllabusctl",
		Short:         "Extract course events, tasks and grading from syllabus documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s.app != nil {
				return s.app.Close()
			}
			return nil
		},
	}

	root.AddCommand(
		newParseCmd(s),
		newDisplayCmd(s),
		newTextCmd(s),
		newSyncCmd(s),
		newTokenCmd(s),
	)
	return root
}

// readDocument loads path and resolves its content type from declared, or
// from the file extension when declared is empty.
func readDocument(path, declared string) (domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}
	name := filepath.Base(path)
	return domain.RawDocument{
		FileName:    name,
		ContentType: domain.ResolveContentType(declared, name),
		Content:     content,
	}, nil
}
