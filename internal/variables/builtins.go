package variables

import (
	"strings"

	"github.com/huandu/xstrings"
)

// BuiltinsInput carries the derived values every template can use
// without declaring them as placeholders.
type BuiltinsInput struct {
	ProjectName string
	CrateType   string // "bin" or "lib"
	AuthorName  string
	AuthorEmail string
	OSArch      string
	Init        bool
}

// FillBuiltins inserts the built-in variables into the set:
// project-name, crate_name, crate_type, authors, username, os-arch and
// is_init. They exist before any placeholder is resolved, so templates
// and conditional expressions can rely on them.
func FillBuiltins(set *Set, in BuiltinsInput) {
	set.PutString("project-name", in.ProjectName)
	set.PutString("crate_name", CrateName(in.ProjectName))
	set.PutString("crate_type", in.CrateType)
	set.PutString("authors", in.authors())
	set.PutString("username", in.username())
	set.PutString("os-arch", in.OSArch)
	set.PutBool("is_init", in.Init)
}

// CrateName derives the crate identifier from a project name, e.g.
// "my-project" becomes "my_project".
func CrateName(projectName string) string {
	return xstrings.ToSnakeCase(projectName)
}

// authors formats the author line the way cargo does: "Name <email>",
// degrading to whichever part is known.
func (in BuiltinsInput) authors() string {
	switch {
	case in.AuthorName != "" && in.AuthorEmail != "":
		return in.AuthorName + " <" + in.AuthorEmail + ">"
	case in.AuthorName != "":
		return in.AuthorName
	default:
		return in.AuthorEmail
	}
}

// username picks the short identity: the configured name, or the local
// part of the email when no name is set.
func (in BuiltinsInput) username() string {
	if in.AuthorName != "" {
		return in.AuthorName
	}
	if at := strings.IndexByte(in.AuthorEmail, '@'); at > 0 {
		return in.AuthorEmail[:at]
	}
	return ""
}
