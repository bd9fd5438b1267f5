package sched

import (
	"log"

	"github.com/ezrec/parvm/proc"
)

// Decision is one recorded scheduling choice, keyed by
// (timestamp, processor id). NO_THREAD records "no assignment".
type Decision struct {
	Timestamp   uint64
	ProcessorId int
	ThreadId    int
}

// Preemption is one recorded preemption verdict, keyed by
// (timestamp, running thread id).
type Preemption struct {
	Timestamp uint64
	ThreadId  int
	Preempt   bool
}

// logKey indexes a log entry: the second field is the processor id for
// selections and the running thread id for preemptions.
type logKey struct {
	timestamp uint64
	id        int
}

// Deterministic wraps any base policy with a decision log. While
// recording, the first occurrence of a key delegates to the base policy
// and records the outcome; the key is immutable afterwards. With a
// replayed log loaded, recorded outcomes are returned unconditionally,
// reproducing the original run. Both selections and preemption verdicts
// are logged; replaying one without the other would leave the base
// policy's slice bookkeeping uncharged and the runs would diverge.
type Deterministic struct {
	Verbose bool // Set to enable verbose logging.

	base
	wrapped Scheduler

	log       []Decision
	index     map[logKey]int
	preempts  []Preemption
	pindex    map[logKey]int
	replaying bool
}

// NewDeterministic wraps the base policy in recording mode.
func NewDeterministic(wrapped Scheduler) (s *Deterministic) {
	s = &Deterministic{
		base:    newBase("deterministic:" + wrapped.Name()),
		wrapped: wrapped,
		index:   map[logKey]int{},
		pindex:  map[logKey]int{},
	}

	return
}

var _ Scheduler = (*Deterministic)(nil)

// Decisions returns a copy of the recorded decision log.
func (s *Deterministic) Decisions() (decisions []Decision) {
	decisions = append(decisions, s.log...)
	return
}

// Preemptions returns a copy of the recorded preemption log.
func (s *Deterministic) Preemptions() (preemptions []Preemption) {
	preemptions = append(preemptions, s.preempts...)
	return
}

// Replay loads the recorded logs and switches to replay mode.
func (s *Deterministic) Replay(decisions []Decision, preemptions []Preemption) {
	s.log = append([]Decision{}, decisions...)
	s.index = map[logKey]int{}
	for n, d := range s.log {
		s.index[logKey{d.Timestamp, d.ProcessorId}] = n
	}

	s.preempts = append([]Preemption{}, preemptions...)
	s.pindex = map[logKey]int{}
	for n, p := range s.preempts {
		s.pindex[logKey{p.Timestamp, p.ThreadId}] = n
	}

	s.replaying = true
}

// Replaying reports whether a loaded log drives selection.
func (s *Deterministic) Replaying() bool {
	return s.replaying
}

// SelectThread returns the recorded choice for the key if one exists,
// otherwise (recording mode only) delegates to the base policy and
// records its choice.
func (s *Deterministic) SelectThread(available []*proc.Thread, processorId int, timestamp uint64) *proc.Thread {
	key := logKey{timestamp, processorId}

	if n, ok := s.index[key]; ok {
		id := s.log[n].ThreadId
		if id == NO_THREAD {
			return nil
		}
		for _, th := range available {
			if th.Id == id {
				return th
			}
		}
		if s.Verbose {
			log.Printf("sched: replay t=%d p%d: th%d not available", timestamp, processorId, id)
		}
		return nil
	}

	if s.replaying {
		// Off the end of the log; no assignment.
		return nil
	}

	pick := s.wrapped.SelectThread(available, processorId, timestamp)
	id := NO_THREAD
	if pick != nil {
		id = pick.Id
	}
	s.index[key] = len(s.log)
	s.log = append(s.log, Decision{Timestamp: timestamp, ProcessorId: processorId, ThreadId: id})

	return pick
}

// ShouldPreempt returns the recorded verdict for the key if one exists,
// otherwise (recording mode only) delegates to the base policy and
// records its verdict. During replay the base policy is never consulted:
// its slice bookkeeping was only charged on the recording run, so asking
// it again would preempt threads the original run let keep running.
func (s *Deterministic) ShouldPreempt(running *proc.Thread, waiting []*proc.Thread, timestamp uint64) bool {
	key := logKey{timestamp, running.Id}

	if n, ok := s.pindex[key]; ok {
		return s.preempts[n].Preempt
	}

	if s.replaying {
		// Off the end of the log; keep the thread running.
		return false
	}

	verdict := s.wrapped.ShouldPreempt(running, waiting, timestamp)
	s.pindex[key] = len(s.preempts)
	s.preempts = append(s.preempts, Preemption{Timestamp: timestamp, ThreadId: running.Id, Preempt: verdict})

	return verdict
}

// Schedule binds idle processors according to the log or the base policy.
func (s *Deterministic) Schedule(threads map[int]*proc.Thread, readyQueue []int, processors []*proc.Processor, timestamp uint64) (assignments map[int]int, ready []int) {
	return s.assign(s, threads, readyQueue, processors, timestamp)
}

// Statistics returns the wrapper's counters under its combined name.
func (s *Deterministic) Statistics() (stats Statistics) {
	return s.statistics()
}
