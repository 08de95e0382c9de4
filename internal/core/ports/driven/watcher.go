package driven

import "context"

// DirWatcher reports files created or rewritten in a directory.
type DirWatcher interface {
	// Watch calls onFile with the path of each file that finished being
	// written in dir. Blocks until ctx is cancelled or the watch fails.
	Watch(ctx context.Context, dir string, onFile func(path string)) error
}
