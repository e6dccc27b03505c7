package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

// Printer writes the user-facing status lines of one generation run.
// The zero value prints to stdout.
type Printer struct {
	// Out defaults to os.Stdout when nil.
	Out io.Writer
	// Verbose additionally reports every filter deletion and every
	// rendered file.
	Verbose bool
}

// FavoriteLine is one row of the favorites listing.
type FavoriteLine struct {
	Name        string
	Description string
}

// Basedir announces the working directory the project is created in.
func (p *Printer) Basedir(dir string) {
	p.status(emojiWrench, StyleAction.Render("Basedir:")+" "+StyleNoun.Render(dir))
}

// Destination announces the resolved project directory.
func (p *Printer) Destination(dir string) {
	p.status(emojiWrench, StyleAction.Render("Destination:")+" "+StyleNoun.Render(dir))
}

// ProjectName announces the resolved project name.
func (p *Printer) ProjectName(name string) {
	p.status(emojiWrench, StyleAction.Render("project-name:")+" "+StyleNoun.Render(name))
}

// Generating announces the start of template expansion.
func (p *Printer) Generating() {
	p.status(emojiWrench, StyleAction.Render("Generating template ..."))
}

// RenameWarning reports that the project name was converted to kebab
// case.
func (p *Printer) RenameWarning(from, to string) {
	p.status(emojiWarn, StyleWarning.Render(
		fmt.Sprintf("Renaming project called `%s` to `%s`...", from, to)))
}

// Moving announces relocation of the expanded tree.
func (p *Printer) Moving(dir string) {
	p.status(emojiWrench, StyleAction.Render(
		fmt.Sprintf("Moving generated files into: `%s`...", dir)))
}

// InitializingRepository announces version-control setup in the new
// project.
func (p *Printer) InitializingRepository() {
	p.status(emojiInfo, StyleAction.Render("Initializing a fresh Git repository"))
}

// Done reports successful completion.
func (p *Printer) Done(dir string) {
	p.status(emojiSparkle, StyleSuccess.Render("Done! New project created "+dir))
}

// Removed reports one filter deletion. Only verbose runs see these.
func (p *Printer) Removed(rel string) {
	if !p.Verbose {
		return
	}
	p.status(emojiInfo, StyleRemoved.Render("Removed: "+rel))
}

// Rendered reports one processed template file. Only verbose runs see
// these.
func (p *Printer) Rendered(rel string) {
	if !p.Verbose {
		return
	}
	fmt.Fprintln(p.out(), StyleDim.Render("   "+rel))
}

// ListFavorites renders the favorites table from the application
// settings.
func (p *Printer) ListFavorites(lines []FavoriteLine) {
	if len(lines) == 0 {
		fmt.Fprintln(p.out(), StyleWarning.Render("No favorites defined"))
		return
	}
	fmt.Fprintln(p.out(), StyleAction.Render("Possible favorites:"))
	w := tabwriter.NewWriter(p.out(), 0, 4, 4, ' ', 0)
	for _, line := range lines {
		fmt.Fprintf(w, "    %s\t%s\n", StyleNoun.Render(line.Name), line.Description)
	}
	w.Flush()
}

func (p *Printer) status(emoji, msg string) {
	fmt.Fprintf(p.out(), "%s %s\n", emoji, msg)
}

func (p *Printer) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}
