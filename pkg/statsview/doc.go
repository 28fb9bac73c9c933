// Package statsview serves runtime statistics of the emulator process over
// HTTP. The server is only built when the statsview build tag is present:
//
//	go build -tags statsview ./cmd/desktop
//
// After launch the graphs are viewable at localhost:12600/debug/statsview and
// the standard pprof pages at localhost:12600/debug/pprof/.
package statsview
