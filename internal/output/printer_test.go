package output

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterStatusLines(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf}

	p.Basedir("/work")
	p.Destination("/work/demo")
	p.ProjectName("demo")
	p.Generating()
	p.Moving("/work/demo")
	p.InitializingRepository()
	p.Done("/work/demo")

	out := buf.String()
	assert.Contains(t, out, "Basedir: /work")
	assert.Contains(t, out, "Destination: /work/demo")
	assert.Contains(t, out, "project-name: demo")
	assert.Contains(t, out, "Generating template ...")
	assert.Contains(t, out, "Moving generated files into: `/work/demo`...")
	assert.Contains(t, out, "Initializing a fresh Git repository")
	assert.Contains(t, out, "Done! New project created /work/demo")
}

func TestPrinterRenameWarning(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf}

	p.RenameWarning("My Project", "my-project")

	assert.Contains(t, buf.String(), "Renaming project called `My Project` to `my-project`...")
}

func TestRemovedOnlyWhenVerbose(t *testing.T) {
	var quiet bytes.Buffer
	(&Printer{Out: &quiet}).Removed("target/debug")
	assert.Empty(t, quiet.String())

	var loud bytes.Buffer
	(&Printer{Out: &loud, Verbose: true}).Removed("target/debug")
	assert.Contains(t, loud.String(), "Removed: target/debug")
}

func TestListFavorites(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf}

	p.ListFavorites([]FavoriteLine{
		{Name: "wasm", Description: "wasm-pack starter"},
		{Name: "cli", Description: "command line starter"},
	})

	out := buf.String()
	assert.Contains(t, out, "Possible favorites:")
	assert.Contains(t, out, "wasm")
	assert.Contains(t, out, "wasm-pack starter")
	assert.Contains(t, out, "cli")
}

func TestListFavoritesEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&Printer{Out: &buf}).ListFavorites(nil)
	assert.Contains(t, buf.String(), "No favorites defined")
}

func TestTrackerDrainsBeforeJoinReturns(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf, Verbose: true}

	tracker := p.NewTracker(context.Background())
	tracker.Processed("src/main.rs")
	tracker.Processed("Cargo.toml")
	tracker.Processed("README.md")
	require.NoError(t, tracker.Join())

	out := buf.String()
	assert.Contains(t, out, "src/main.rs")
	assert.Contains(t, out, "Cargo.toml")
	assert.Contains(t, out, "README.md")
}

func TestTrackerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	tracker := (&Printer{Out: &buf}).NewTracker(ctx)
	assert.Error(t, tracker.Join())
}
