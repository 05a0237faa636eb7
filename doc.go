// Package drawq implements work-queue based drawing: any number of
// goroutines request drawing operations against a single-threaded,
// non-reentrant rendering backend without coordinating with the thread
// that owns the rendering context.
//
// Draw requests (shapes, text, images, sprite animation frames) are
// validated, copied into an owned job record and appended to a FIFO
// queue. The thread owning the render context periodically calls
// [Canvas.Update], which drains the queue, dispatches every job to the
// [Backend] in the exact order the jobs were enqueued, and presents the
// frame.
//
// Shared resources — loaded images and fonts — are reference counted.
// A job that references a resource holds a strong reference from enqueue
// until dispatch, so releasing a resource while jobs are in flight only
// marks it pending-free; the backend objects are torn down when the last
// reference drops.
//
// # Architecture
//
//   - Job queue: total FIFO order across all producers, drained by the
//     render-context owner.
//   - Resource registries: integer-handle tables for fonts and images
//     with acquire/release counting and deferred destruction.
//   - Animation engine: spritesheet cell geometry plus per-instance
//     frame timing that turns elapsed time into a frame index.
//   - Frame driver: optional FPS ceiling, global pixel offset applied at
//     dispatch time, backend present.
//
// Rendering itself is delegated to a [Backend] and a [FontProvider].
// Backends register themselves via [Register], following the
// database/sql driver pattern; the backend/raster package provides a
// pure-software reference backend.
//
// # Example
//
//	c, err := drawq.New(drawq.Options{
//	    Backend:     raster.New(640, 480),
//	    Fonts:       text.NewProvider(),
//	    FontDir:     "resources/fonts",
//	    DefaultFont: "IBMPlexSans-Medium.ttf",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	go func() {
//	    c.Clear(drawq.White)
//	    c.FilledBox(10, 10, 20, 20, drawq.Red)
//	}()
//
//	// On the thread owning the render context:
//	runtime.LockOSThread()
//	c.Bind()
//	for {
//	    if err := c.Update(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// All Canvas methods are safe to call from any goroutine except
// [Canvas.Update] and [Canvas.Bind], which must run on the thread that
// owns the render context.
package drawq
