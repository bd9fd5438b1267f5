// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package vm implements the parvm orchestrator: it owns the processors,
// shared memory, threads, scheduler, synchronization registry, and
// metrics collector, and drives the cycle-stepped simulation loop.
//
// The simulation is single-threaded. Each Step asks the scheduler for
// assignments, executes one instruction per bound processor in ascending
// processor-id order, applies the resulting side effects in the same
// order, and records trace and metric entries. That fixed ordering is
// what makes two VMs with identical inputs produce byte-identical traces
// and final memory.
package vm

import (
	"log"
	"strconv"

	"github.com/ezrec/parvm/isa"
	"github.com/ezrec/parvm/mem"
	"github.com/ezrec/parvm/metrics"
	"github.com/ezrec/parvm/proc"
	"github.com/ezrec/parvm/sched"
	"github.com/ezrec/parvm/sync"
)

// Default machine geometry.
const (
	DEFAULT_MEMORY_SIZE = 1024
	DEFAULT_PROCESSORS  = 2
)

// VmState is the lifecycle state of the VM.
type VmState int

//go:generate go tool stringer -linecomment -type=VmState
const (
	VM_IDLE     = VmState(0) // idle
	VM_RUNNING  = VmState(1) // running
	VM_FINISHED = VmState(2) // finished
)

// Vm is the virtual machine orchestrator.
type Vm struct {
	Verbose bool // Set to enable verbose logging.

	Memory    *mem.Memory
	Scheduler sched.Scheduler
	Registry  *sync.Registry
	Metrics   *metrics.Collector

	Processors []*proc.Processor

	programs map[int]*isa.Program
	threads  map[int]*proc.Thread

	readyQueue []int
	joiners    map[int]struct{}
	faults     []Fault

	clock uint64
	state VmState
	trace []TraceEvent

	nextProgram int
	nextThread  int
}

// NewVm creates a VM with the given processor count, memory size, and
// scheduling policy.
func NewVm(processors int, memorySize int, scheduler sched.Scheduler) (vm *Vm) {
	if processors <= 0 {
		processors = DEFAULT_PROCESSORS
	}
	if memorySize <= 0 {
		memorySize = DEFAULT_MEMORY_SIZE
	}

	vm = &Vm{
		Memory:    mem.NewMemory(memorySize, processors),
		Scheduler: scheduler,
		Registry:  sync.NewRegistry(),
		Metrics:   metrics.NewCollector(processors),
		programs:  map[int]*isa.Program{},
		threads:   map[int]*proc.Thread{},
		joiners:   map[int]struct{}{},
	}

	for n := range processors {
		vm.Processors = append(vm.Processors, proc.NewProcessor(n))
	}

	vm.Memory.Observer = func(addr uint32, write bool, processorId int, threadId int, timestamp uint64, hit bool) {
		vm.Metrics.RecordMemoryAccess(hit)
	}

	return
}

// State returns the VM lifecycle state.
func (vm *Vm) State() VmState {
	return vm.state
}

// Clock returns the global cycle counter.
func (vm *Vm) Clock() uint64 {
	return vm.clock
}

// Faults returns the per-thread errors the run survived.
func (vm *Vm) Faults() []Fault {
	return vm.faults
}

// LoadProgram registers the program and copies its data segment into
// memory at the declared offsets.
func (vm *Vm) LoadProgram(prog *isa.Program) (programId int, err error) {
	for addr, value := range prog.Data {
		err = vm.Memory.Poke(addr, value)
		if err != nil {
			err = ErrProgramLoad{Addr: addr, Err: err}
			return
		}
	}

	programId = vm.nextProgram
	vm.nextProgram++
	vm.programs[programId] = prog

	if vm.Verbose {
		log.Printf("vm: program %d loaded, %d instructions, entry %d",
			programId, len(prog.Instructions), prog.EntryPoint)
	}

	return
}

// CreateThread allocates a READY thread at the program's entry point and
// enqueues it.
func (vm *Vm) CreateThread(programId int) (threadId int, err error) {
	prog, ok := vm.programs[programId]
	if !ok {
		err = ErrProgramNotFound(programId)
		return
	}

	threadId = vm.spawn(programId, prog.EntryPoint, 0, 0)
	return
}

// Thread returns the thread with the given id, for priority/affinity/
// estimate adjustment and state inspection.
func (vm *Vm) Thread(threadId int) (th *proc.Thread, err error) {
	th, ok := vm.threads[threadId]
	if !ok {
		err = ErrThreadNotFound(threadId)
	}

	return
}

// spawn creates a READY thread and enqueues it.
func (vm *Vm) spawn(programId int, pc uint32, r0 int32, priority int) (threadId int) {
	threadId = vm.nextThread
	vm.nextThread++

	th := proc.NewThread(threadId, programId, pc)
	th.Registers[0] = r0
	th.Priority = priority
	vm.threads[threadId] = th
	vm.readyQueue = append(vm.readyQueue, threadId)

	if vm.Verbose {
		log.Printf("vm: thread %d spawned at pc=%d", threadId, pc)
	}

	return
}

// Step executes exactly one VM cycle.
func (vm *Vm) Step() (err error) {
	if vm.state == VM_FINISHED {
		return
	}
	vm.state = VM_RUNNING

	err = vm.checkBindings()
	if err != nil {
		return
	}

	vm.preempt()

	// Scheduling: bind idle processors to ready threads, ascending
	// processor-id order.
	assignments, ready := vm.Scheduler.Schedule(vm.threads, vm.readyQueue, vm.Processors, vm.clock)
	vm.readyQueue = ready
	for _, p := range vm.Processors {
		threadId, ok := assignments[p.Id]
		if !ok {
			continue
		}
		th := vm.threads[threadId]
		err = p.Bind(th)
		if err != nil {
			return
		}
		vm.record(TRACE_SELECT_THREAD, p.Id, threadId, vm.Scheduler.Name())
	}

	// Execution: one instruction per bound processor, ascending order.
	type executed struct {
		p      *proc.Processor
		th     *proc.Thread
		effect proc.SideEffect
	}
	var ran []executed
	active := make([]bool, len(vm.Processors))

	for _, p := range vm.Processors {
		if p.Thread == proc.NO_THREAD {
			continue
		}
		th := vm.threads[p.Thread]
		if th.State != proc.THREAD_RUNNING {
			continue
		}
		prog := vm.programs[th.ProgramId]

		// A PC off the end of the program is Execute's error to make.
		if int(th.Pc) < len(prog.Instructions) {
			vm.record(TRACE_INSTRUCTION_START, p.Id, th.Id, prog.Instructions[th.Pc].String())
		}

		effect, execErr := p.Execute(th, prog, vm.Memory, vm.clock)
		if execErr != nil {
			vm.fault(p, th, execErr)
			continue
		}

		active[p.Id] = true
		vm.Metrics.RecordInstruction(p.Id, th.Id, prog.Instructions[th.Pc].Op.Class())
		ran = append(ran, executed{p: p, th: th, effect: effect})
	}

	// Side-effect application, ascending processor-id order.
	for _, ex := range ran {
		err = vm.apply(ex.p, ex.th, ex.effect)
		if err != nil {
			return
		}
	}

	vm.Metrics.RecordCycle(active, vm.waitingThreads())

	vm.clock++
	vm.checkFinished()

	return
}

// Run repeatedly steps until FINISHED or the cycle budget is exhausted.
// Stopping at the budget is not an error, merely an unreached terminal
// state; the trace and metrics remain valid either way.
func (vm *Vm) Run(maxCycles uint64) (err error) {
	for cycle := uint64(0); cycle < maxCycles; cycle++ {
		if vm.state == VM_FINISHED {
			return
		}
		err = vm.Step()
		if err != nil {
			return
		}
	}

	return
}

// preempt offers every running thread to the scheduler's preemption
// rule, ascending processor-id order.
func (vm *Vm) preempt() {
	waiting := vm.readyThreads()

	for _, p := range vm.Processors {
		if p.Thread == proc.NO_THREAD {
			continue
		}
		th := vm.threads[p.Thread]
		if th.State != proc.THREAD_RUNNING {
			continue
		}
		if !vm.Scheduler.ShouldPreempt(th, waiting, vm.clock) {
			continue
		}

		p.Unbind(th)
		th.State = proc.THREAD_READY
		vm.readyQueue = append(vm.readyQueue, th.Id)
		vm.record(TRACE_CONTEXT_SWITCH, p.Id, th.Id, "preempt")
		vm.Metrics.RecordContextSwitch(th.Id)

		if vm.Verbose {
			log.Printf("vm: t=%d preempt th%d off p%d", vm.clock, th.Id, p.Id)
		}
	}
}

// fault terminates a thread that hit an execution error; the VM run
// continues for the others.
func (vm *Vm) fault(p *proc.Processor, th *proc.Thread, err error) {
	vm.faults = append(vm.faults, Fault{Timestamp: vm.clock, ThreadId: th.Id, Err: err})
	th.State = proc.THREAD_TERMINATED
	p.Unbind(th)
	vm.wakeJoiners()

	if vm.Verbose {
		log.Printf("vm: t=%d thread %d faulted: %v", vm.clock, th.Id, err)
	}
}

// readyThreads returns the READY threads in queue order.
func (vm *Vm) readyThreads() (ready []*proc.Thread) {
	for _, id := range vm.readyQueue {
		th, ok := vm.threads[id]
		if !ok || th.State != proc.THREAD_READY {
			continue
		}
		ready = append(ready, th)
	}

	return
}

// waitingThreads returns the ids of threads that are alive but not
// running this cycle; both WAITING and queued READY threads are charged
// wait time.
func (vm *Vm) waitingThreads() (ids []int) {
	for id := 0; id < vm.nextThread; id++ {
		th, ok := vm.threads[id]
		if !ok {
			continue
		}
		switch th.State {
		case proc.THREAD_READY, proc.THREAD_WAITING:
			ids = append(ids, id)
		}
	}

	return
}

// checkBindings validates the one-processor-per-running-thread
// invariant. A violation is fatal to the run.
func (vm *Vm) checkBindings() (err error) {
	bound := map[int]int{}
	for _, p := range vm.Processors {
		if p.Thread == proc.NO_THREAD {
			continue
		}
		bound[p.Thread]++
		if bound[p.Thread] > 1 {
			return ErrCorruptBinding
		}
	}

	return
}

// checkFinished transitions to FINISHED once every thread has
// terminated.
func (vm *Vm) checkFinished() {
	for _, th := range vm.threads {
		if th.State != proc.THREAD_TERMINATED {
			return
		}
	}

	vm.state = VM_FINISHED

	if vm.Verbose {
		log.Printf("vm: finished at t=%d", vm.clock)
	}
}

// block parks the bound thread as WAITING and frees its processor.
func (vm *Vm) block(p *proc.Processor, th *proc.Thread) {
	p.Unbind(th)
	th.State = proc.THREAD_WAITING
	vm.Metrics.RecordSyncContention()
}

// wake transitions a WAITING thread back to READY.
func (vm *Vm) wake(threadId int) {
	th, ok := vm.threads[threadId]
	if !ok || th.State != proc.THREAD_WAITING {
		return
	}

	th.State = proc.THREAD_READY
	vm.readyQueue = append(vm.readyQueue, threadId)

	if vm.Verbose {
		log.Printf("vm: t=%d wake th%d", vm.clock, threadId)
	}
}

// wakeJoiners resumes JoinAll waiters whose condition now holds.
func (vm *Vm) wakeJoiners() {
	for id := range vm.joiners {
		if !vm.othersTerminated(id) {
			continue
		}
		delete(vm.joiners, id)
		vm.wake(id)
	}
}

// othersTerminated reports whether every thread except the given one has
// terminated.
func (vm *Vm) othersTerminated(threadId int) bool {
	for id, th := range vm.threads {
		if id == threadId {
			continue
		}
		if th.State != proc.THREAD_TERMINATED {
			return false
		}
	}

	return true
}

// apply interprets one side effect against the shared state. Side
// effects are the only path that mutates memory or synchronization
// state.
func (vm *Vm) apply(p *proc.Processor, th *proc.Thread, effect proc.SideEffect) (err error) {
	// PC disposition first; a thread that blocks resumes past the
	// instruction that blocked it.
	switch effect.Pc {
	case proc.PC_NEXT:
		th.Pc++
	case proc.PC_SET:
		th.Pc = effect.Target
	}

	switch e := effect.Effect.(type) {
	case nil:
		// Pure register operation.

	case proc.MemoryWrite:
		err = vm.Memory.Write(e.Addr, e.Value, p.Id, th.Id, vm.clock)
		if err != nil {
			vm.fault(p, th, err)
			err = nil
			return
		}

	case proc.Halt:
		p.Unbind(th)
		th.State = proc.THREAD_TERMINATED
		vm.wakeJoiners()

	case proc.Yield:
		p.Unbind(th)
		th.State = proc.THREAD_READY
		vm.readyQueue = append(vm.readyQueue, th.Id)
		vm.record(TRACE_CONTEXT_SWITCH, p.Id, th.Id, "yield")
		vm.Metrics.RecordContextSwitch(th.Id)

	case proc.LockAcquire:
		locker, lockErr := vm.Registry.LockerFor(e.Id)
		if lockErr != nil {
			vm.fault(p, th, lockErr)
			return
		}
		if !locker.Acquire(th.Id, vm.clock) {
			vm.block(p, th)
		}

	case proc.LockRelease:
		locker, lockErr := vm.Registry.LockerFor(e.Id)
		if lockErr != nil {
			vm.fault(p, th, lockErr)
			return
		}
		next, lockErr := locker.Release(th.Id, vm.clock)
		if lockErr != nil {
			vm.fault(p, th, lockErr)
			return
		}
		if next != sync.NO_THREAD {
			vm.wake(next)
		}

	case proc.Fence:
		// Sequencing no-op in this sequentially consistent model.

	case proc.Cas:
		var current int32
		current, err = vm.Memory.Read(e.Addr, p.Id, th.Id, vm.clock)
		if err != nil {
			vm.fault(p, th, err)
			err = nil
			return
		}
		if current == e.Expect {
			err = vm.Memory.Write(e.Addr, e.New, p.Id, th.Id, vm.clock)
			if err != nil {
				vm.fault(p, th, err)
				err = nil
				return
			}
			p.Registers[e.Dest] = 1
		} else {
			p.Registers[e.Dest] = 0
		}

	case proc.AtomicAdd:
		var current int32
		current, err = vm.Memory.Read(e.Addr, p.Id, th.Id, vm.clock)
		if err != nil {
			vm.fault(p, th, err)
			err = nil
			return
		}
		value := current + e.Delta
		err = vm.Memory.Write(e.Addr, value, p.Id, th.Id, vm.clock)
		if err != nil {
			vm.fault(p, th, err)
			err = nil
			return
		}
		p.Registers[e.Dest] = value

	case proc.BarrierArrive:
		barrier, barrierErr := vm.Registry.BarrierFor(e.Id)
		if barrierErr != nil {
			vm.fault(p, th, barrierErr)
			return
		}
		tripped, unblocked := barrier.Arrive(th.Id, vm.clock)
		if tripped {
			for _, id := range unblocked {
				vm.wake(id)
			}
		} else {
			vm.block(p, th)
		}

	case proc.Fork:
		vm.spawn(th.ProgramId, e.TargetPc, e.Arg, th.Priority)

	case proc.JoinAll:
		if !vm.othersTerminated(th.Id) {
			vm.joiners[th.Id] = struct{}{}
			vm.block(p, th)
		}
	}

	if th.State == proc.THREAD_RUNNING {
		p.StoreRegisters(th)
	}

	return
}

// Statistics returns the scheduler's counters.
func (vm *Vm) Statistics() sched.Statistics {
	return vm.Scheduler.Statistics()
}

// SyncStatistics returns the per-primitive counters, by id.
func (vm *Vm) SyncStatistics() map[string]sync.Statistics {
	return vm.Registry.Statistics()
}

// Summary returns the derived metrics view.
func (vm *Vm) Summary() metrics.Summary {
	return vm.Metrics.Summary()
}

// RegisterLockId registers a ReentrantLock under a numeric id reachable
// from LOCK/UNLOCK instructions.
func (vm *Vm) RegisterLockId(id int, reentrant bool) (err error) {
	name := strconv.Itoa(id)
	if reentrant {
		return vm.Registry.Register(sync.NewReentrantLock(name))
	}
	return vm.Registry.Register(sync.NewLock(name))
}

// RegisterBarrierId registers a Barrier under a numeric id reachable
// from BARRIER instructions.
func (vm *Vm) RegisterBarrierId(id int, parties int) (err error) {
	return vm.Registry.Register(sync.NewBarrier(strconv.Itoa(id), parties))
}
