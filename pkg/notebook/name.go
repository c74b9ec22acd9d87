package notebook

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/matzehuels/obsexport/pkg/errors"
)

var (
	publicNameRe  = regexp.MustCompile(`^@?([a-zA-Z0-9_\-]+)/([a-zA-Z0-9_\-]+)(?:@(\d+))?$`)
	privateNameRe = regexp.MustCompile(`^([0-9a-f]{16})(?:@(\d+))?$`)
)

// Name is a parsed notebook reference. Exactly one of ID or (User, Slug) is
// set. Rev is -1 when no revision was given.
type Name struct {
	User string // Owner of a public notebook, without the leading @
	Slug string // Notebook name of a public notebook
	ID   string // 16-digit hex id of a private notebook
	Rev  int    // Revision, -1 for latest
}

// ParseName parses "@user/notebook[@rev]" or "<16 hex digits>[@rev]".
// The leading @ of public names is optional.
func ParseName(s string) (Name, error) {
	if m := privateNameRe.FindStringSubmatch(s); m != nil {
		return Name{ID: m[1], Rev: parseRev(m[2])}, nil
	}
	if m := publicNameRe.FindStringSubmatch(s); m != nil {
		return Name{User: m[1], Slug: m[2], Rev: parseRev(m[3])}, nil
	}
	return Name{}, errors.New(errors.ErrCodeInvalidName,
		"could not parse notebook %q, should be like '@user/notebook' or a 16-digit hex id", s)
}

func parseRev(s string) int {
	if s == "" {
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// IsPrivate reports whether n refers to a private notebook.
func (n Name) IsPrivate() bool { return n.ID != "" }

// Path returns the API path of the notebook's JavaScript export, relative to
// the API base URL. Private notebooks live under "d/".
func (n Name) Path() string {
	if n.IsPrivate() {
		return "d/" + n.String() + ".js"
	}
	return n.String() + ".js"
}

// String returns the canonical form of the name.
func (n Name) String() string {
	rev := ""
	if n.Rev >= 0 {
		rev = fmt.Sprintf("@%d", n.Rev)
	}
	if n.IsPrivate() {
		return n.ID + rev
	}
	return "@" + n.User + "/" + n.Slug + rev
}

// IsPrivate reports whether id looks like a private notebook id, with or
// without a revision suffix.
func IsPrivate(id string) bool { return privateNameRe.MatchString(id) }

// IsPublic reports whether id looks like a public "@user/notebook" id.
func IsPublic(id string) bool { return publicNameRe.MatchString(id) }
