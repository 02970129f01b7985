// Package watcher observes a drop directory (typically ~/Downloads) for
// newly arrived AppImage files and hands each one to an install handler
// once the file has stopped growing.
//
// It recreates the "drag the bundle onto the Applications folder"
// experience for plain downloads: fsnotify create/rename events select
// candidates, a settle check waits out the in-progress download, and
// the handler decides what installing means (the watch command wires it
// to the install pipeline with the configured defaults).
//
// Example usage:
//
//	w, err := watcher.New(dropDir, func(path string) {
//		// parse + install the bundle at path
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
