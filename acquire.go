package iconpack

import (
	"context"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Fetcher brings a local checkout of a repository up to date.
type Fetcher interface {
	Fetch(ctx context.Context, url, dir string) error
}

// GitFetcher clones the repository when dir holds no checkout yet,
// otherwise it removes untracked files and pulls the remote.
type GitFetcher struct {
	Progress io.Writer
}

// Fetch implements Fetcher.
func (g GitFetcher) Fetch(ctx context.Context, url, dir string) error {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:      url,
			Progress: g.Progress,
		})
		return errors.Wrap(err, "clone")
	}
	if err != nil {
		return errors.Wrap(err, "open")
	}

	wt, err := repo.Worktree()
	if err != nil {
		return errors.Wrap(err, "worktree")
	}
	if err := wt.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return errors.Wrap(err, "clean")
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: git.DefaultRemoteName,
		Progress:   g.Progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.Wrap(err, "pull")
	}
	return nil
}

// Acquirer makes sure the icon source tree is present and up to date
// and resolves the version it is at.
type Acquirer struct {
	Tree    SourceTree
	Fetcher Fetcher
	URL     string
	// Offline skips the fetch and uses the existing checkout as is.
	Offline bool
}

// Acquire fetches the source tree and returns its version.
func (a *Acquirer) Acquire(ctx context.Context) (string, error) {
	if a.Offline {
		ok, err := afero.DirExists(a.Tree.Fs, a.Tree.Root)
		if err != nil {
			return "", &SourceFetchError{Repo: a.URL, Err: err}
		}
		if !ok {
			return "", &SourceFetchError{Repo: a.URL, Err: errors.Errorf("no checkout found at %s", a.Tree.Root)}
		}
	} else {
		if err := a.Fetcher.Fetch(ctx, a.URL, a.Tree.Root); err != nil {
			return "", &SourceFetchError{Repo: a.URL, Err: err}
		}
	}

	version, err := a.Tree.ReadVersion()
	if err != nil {
		return "", &SourceFetchError{Repo: a.URL, Err: err}
	}
	return version, nil
}
