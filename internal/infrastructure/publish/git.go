package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"metalstats-service/internal/application"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

// GitPublisher stages the generated artifacts in the repository at Dir and
// pushes them. A worktree without staged changes is left alone.
type GitPublisher struct {
	Dir    string
	Remote string
	Paths  []string
	User   string
	Token  string
	Log    *zap.Logger
}

var _ application.Publisher = (*GitPublisher)(nil)

func (p *GitPublisher) Publish(ctx context.Context, message string) error {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	repo, err := git.PlainOpen(p.Dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			log.Info("publish_skipped_no_repo", zap.String("dir", p.Dir))
			return nil
		}
		return fmt.Errorf("publish: open repo: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("publish: worktree: %w", err)
	}

	for _, rel := range p.Paths {
		if _, err := os.Stat(filepath.Join(p.Dir, rel)); err != nil {
			log.Warn("publish_path_missing", zap.String("path", rel))
			continue
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("publish: stage %s: %w", rel, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("publish: status: %w", err)
	}
	if !hasStagedChanges(status) {
		log.Info("publish_nothing_to_push")
		return nil
	}

	commit, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName(p.User),
			Email: "metalstats@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("publish: commit: %w", err)
	}
	log.Info("publish_committed", zap.String("commit", commit.String()), zap.String("message", message))

	opts := &git.PushOptions{RemoteName: p.Remote}
	if p.Token != "" {
		opts.Auth = &githttp.BasicAuth{Username: authorName(p.User), Password: p.Token}
	}
	if err := repo.PushContext(ctx, opts); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return fmt.Errorf("publish: push: %w", err)
	}
	log.Info("publish_pushed", zap.String("remote", p.Remote))
	return nil
}

func hasStagedChanges(status git.Status) bool {
	for _, st := range status {
		switch st.Staging {
		case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied:
			return true
		}
	}
	return false
}

func authorName(user string) string {
	if user != "" {
		return user
	}
	return "metalstats"
}
