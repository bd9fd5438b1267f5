// Package sync implements the synchronization primitives of the parvm
// virtual machine: Lock, ReentrantLock, ReadWriteLock, Semaphore, Barrier,
// and CountDownLatch, plus the registry the VM looks them up in by id.
//
// The primitives are pure state machines: nothing here blocks a goroutine.
// An acquire that cannot succeed immediately enqueues the requesting thread
// id on a FIFO waiter queue and reports failure; the corresponding release
// reports the thread ids that became runnable so the VM can transition them
// back to READY. All primitives share one waiter-queue implementation and
// expose acquisition/contention statistics for the metrics layer.
package sync
