package metrics

// CheckpointDiff is the counter delta between two checkpoints, with the
// rates re-derived over the interval.
type CheckpointDiff struct {
	From    string
	To      string
	Deltas  Counters
	Derived Summary
}

// CreateCheckpoint snapshots the current counters under the label.
// Re-using a label overwrites the earlier snapshot.
func (m *Collector) CreateCheckpoint(label string) {
	m.checkpoints[label] = m.counters.clone()
}

// Checkpoint returns the snapshot stored under the label.
func (m *Collector) Checkpoint(label string) (c Counters, err error) {
	c, ok := m.checkpoints[label]
	if !ok {
		err = ErrCheckpointMissing(label)
	}

	return
}

// GetCheckpointDiff computes the counter deltas and derived rates from
// checkpoint l1 to checkpoint l2.
func (m *Collector) GetCheckpointDiff(l1, l2 string) (diff CheckpointDiff, err error) {
	from, err := m.Checkpoint(l1)
	if err != nil {
		return
	}
	to, err := m.Checkpoint(l2)
	if err != nil {
		return
	}

	deltas := Counters{
		Cycles:       to.Cycles - from.Cycles,
		SerialCycles: to.SerialCycles - from.SerialCycles,
		Instructions: to.Instructions - from.Instructions,
		MemoryHits:   to.MemoryHits - from.MemoryHits,
		MemoryMisses: to.MemoryMisses - from.MemoryMisses,
		SyncOps:      to.SyncOps - from.SyncOps,
		SyncContended: to.SyncContended -
			from.SyncContended,
		Active:  make([]uint64, len(to.Active)),
		Idle:    make([]uint64, len(to.Idle)),
		Threads: map[int]ThreadCounters{},
	}
	for n := range to.Active {
		deltas.Active[n] = to.Active[n] - from.Active[n]
		deltas.Idle[n] = to.Idle[n] - from.Idle[n]
	}
	for class := range to.ByClass {
		deltas.ByClass[class] = to.ByClass[class] - from.ByClass[class]
	}
	for id, thTo := range to.Threads {
		thFrom := from.Threads[id]
		deltas.Threads[id] = ThreadCounters{
			Cycles:          thTo.Cycles - thFrom.Cycles,
			Instructions:    thTo.Instructions - thFrom.Instructions,
			Waits:           thTo.Waits - thFrom.Waits,
			ContextSwitches: thTo.ContextSwitches - thFrom.ContextSwitches,
		}
	}

	diff = CheckpointDiff{
		From:    l1,
		To:      l2,
		Deltas:  deltas,
		Derived: summarize(&deltas),
	}

	return
}
