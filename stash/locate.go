package stash

import "context"

// FindForBranch returns the most recent devstash-owned entry for branch,
// or nil when there is none.
func (s *Store) FindForBranch(ctx context.Context, branch string) (*Entry, error) {
	listing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range listing.Entries {
		if entry.Branch == branch {
			return entry, nil
		}
	}
	return nil, nil
}

// FindByHash returns the devstash-owned entry whose stash commit is sha,
// or nil when there is none. Foreign entries are never returned.
func (s *Store) FindByHash(ctx context.Context, sha string) (*Entry, error) {
	listing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range listing.Entries {
		if entry.SHA == sha {
			return entry, nil
		}
	}
	return nil, nil
}
