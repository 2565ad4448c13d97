package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/go-git/go-git/v6/plumbing/transport/ssh"
	"github.com/go-git/go-git/v6/storage/memory"
)

// AuthType defines the type of authentication for git dataset repositories
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeToken AuthType = "token"
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeBasic AuthType = "basic"
)

// GitAuth holds authentication configuration for git dataset repositories
type GitAuth struct {
	Type       AuthType
	Token      string // For token auth
	KeyPath    string // For SSH key auth
	Passphrase string // For SSH key with passphrase
	Username   string // For basic auth
	Password   string // For basic auth
}

// authMethod converts GitAuth to go-git's AuthMethod
func (auth *GitAuth) authMethod() (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}

	switch auth.Type {
	case AuthTypeNone:
		return nil, nil

	case AuthTypeToken:
		// Token auth uses username "git" or any non-empty string
		return &http.BasicAuth{
			Username: "git",
			Password: auth.Token,
		}, nil

	case AuthTypeSSH:
		keyPath := auth.KeyPath
		if keyPath == "" {
			// Default to ~/.ssh/id_rsa
			home, _ := os.UserHomeDir()
			keyPath = home + "/.ssh/id_rsa"
		}
		return ssh.NewPublicKeysFromFile("git", keyPath, auth.Passphrase)

	case AuthTypeBasic:
		return &http.BasicAuth{
			Username: auth.Username,
			Password: auth.Password,
		}, nil

	default:
		return nil, fmt.Errorf("unknown auth type: %s", auth.Type)
	}
}

// LoadGit clones a git repository of CSV files into memory and loads every
// CSV it contains. branch may be empty for the remote default. The clone is
// shallow and entirely in-memory; nothing touches the local filesystem.
func (l *Loader) LoadGit(ctx context.Context, url, branch string, auth *GitAuth) (map[string]int64, error) {
	authMethod, err := auth.authMethod()
	if err != nil {
		return nil, fmt.Errorf("failed to configure auth: %w", err)
	}

	opts := &git.CloneOptions{
		URL:   url,
		Depth: 1,
		Auth:  authMethod,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}

	wt := memfs.New()
	storer := memory.NewStorage()

	if _, err := git.CloneContext(ctx, storer, wt, opts); err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", url, err)
	}

	return l.LoadFS(ctx, wt, "/")
}
