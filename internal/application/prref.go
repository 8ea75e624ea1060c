package application

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// PRRef identifies a single pull request.
type PRRef struct {
	Repo   string // owner/repo
	Number int
}

// String renders the reference as owner/repo#N.
func (r PRRef) String() string {
	return fmt.Sprintf("%s#%d", r.Repo, r.Number)
}

// ParsePRRef resolves command-line arguments to a pull request. Accepted forms:
//
//	owner/repo 12
//	owner/repo#12
//	https://github.com/owner/repo/pull/12
//	12            (uses defaultRepo)
func ParsePRRef(args []string, defaultRepo string) (PRRef, error) {
	switch len(args) {
	case 1:
		arg := strings.TrimSpace(args[0])
		if strings.Contains(arg, "://") {
			return parsePRURL(arg)
		}
		if repo, num, ok := strings.Cut(arg, "#"); ok {
			if repo == "" {
				repo = defaultRepo
			}
			return newPRRef(repo, num)
		}
		if defaultRepo == "" {
			return PRRef{}, fmt.Errorf("%w: no repository given for PR %q", model.ErrInvalidRepo, arg)
		}
		return newPRRef(defaultRepo, arg)
	case 2:
		return newPRRef(strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
	default:
		return PRRef{}, fmt.Errorf("%w: expected [owner/repo] <number>, got %d arguments", model.ErrInvalidRepo, len(args))
	}
}

// parsePRURL handles https://<host>/owner/repo/pull/N.
func parsePRURL(raw string) (PRRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return PRRef{}, fmt.Errorf("%w: parsing PR URL %q: %v", model.ErrInvalidRepo, raw, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || (parts[2] != "pull" && parts[2] != "pulls") {
		return PRRef{}, fmt.Errorf("%w: %q is not a pull request URL", model.ErrInvalidRepo, raw)
	}
	return newPRRef(parts[0]+"/"+parts[1], parts[3])
}

func newPRRef(repo, number string) (PRRef, error) {
	if err := ValidateRepo(repo); err != nil {
		return PRRef{}, err
	}
	n, err := strconv.Atoi(strings.TrimPrefix(number, "#"))
	if err != nil || n <= 0 {
		return PRRef{}, fmt.Errorf("%w: invalid PR number %q", model.ErrInvalidRepo, number)
	}
	return PRRef{Repo: repo, Number: n}, nil
}

// ValidateRepo checks that repo has the owner/repo shape. Neither half may
// be empty or contain whitespace, '/' or '#'.
func ValidateRepo(repo string) error {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || !validRepoSegment(owner) || !validRepoSegment(name) {
		return fmt.Errorf("%w: %q: expected owner/repo", model.ErrInvalidRepo, repo)
	}
	return nil
}

func validRepoSegment(s string) bool {
	return s != "" && !strings.ContainsFunc(s, func(r rune) bool {
		return r == '/' || r == '#' || unicode.IsSpace(r)
	})
}
