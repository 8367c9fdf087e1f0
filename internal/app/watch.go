package app

import (
	"context"

	"github.com/dshills/scrawl/internal/project/watcher"
)

// startWatcher watches the script file and posts reloads to the loop.
func (s *Studio) startWatcher(ctx context.Context) error {
	if s.watcher == nil || s.doc.IsScratch() {
		return nil
	}
	if err := s.watcher.Watch(s.doc.Path); err != nil {
		return err
	}
	go watcher.Run(ctx, s.watcher,
		func(ev watcher.Event) {
			if ev.Op.Changed() {
				s.backend.Interrupt(reloadRequest{Path: ev.Path})
			}
		},
		func(err error) {
			s.backend.Interrupt(watchFailure{Err: err})
		},
	)
	return nil
}
