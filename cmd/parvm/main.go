// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/ezrec/parvm/isa"
	"github.com/ezrec/parvm/sched"
	"github.com/ezrec/parvm/vm"
)

// schedulerFor maps a policy name to a fresh scheduler.
func schedulerFor(name string) (s sched.Scheduler, err error) {
	switch name {
	case "rr":
		s = sched.NewRoundRobin(sched.DEFAULT_TIME_SLICE)
	case "priority":
		s = sched.NewPriority(true, sched.DEFAULT_TIME_SLICE)
	case "priority-np":
		s = sched.NewPriority(false, sched.DEFAULT_TIME_SLICE)
	case "sjf":
		s = sched.NewShortestJobFirst()
	case "mlfq":
		s = sched.NewMultiLevelFeedbackQueue(3, sched.DEFAULT_TIME_SLICE)
	case "affinity":
		s = sched.NewAffinity(sched.DEFAULT_TIME_SLICE)
	default:
		err = fmt.Errorf("unknown scheduler %q", name)
	}

	return
}

func main() {
	var compile string
	var processors int
	var memory int
	var policy string
	var threads int
	var maxCycles uint64
	var deterministic bool
	var trace bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".pasm file to compile and run")
	flag.IntVar(&processors, "p", vm.DEFAULT_PROCESSORS, "Number of processors")
	flag.IntVar(&memory, "m", vm.DEFAULT_MEMORY_SIZE, "Memory size in cells")
	flag.StringVar(&policy, "S", "rr", "Scheduler: rr, priority, priority-np, sjf, mlfq, affinity")
	flag.IntVar(&threads, "t", 1, "Initial threads to start")
	flag.Uint64Var(&maxCycles, "n", 100000, "Maximum cycles to run")
	flag.BoolVar(&deterministic, "D", false, "Record scheduling decisions for replay")
	flag.BoolVar(&trace, "T", false, "Print the execution trace")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}
	if len(compile) == 0 {
		log.Fatalf("%v: No program given (-c)", os.Args[0])
	}

	scheduler, err := schedulerFor(policy)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if deterministic {
		scheduler = sched.NewDeterministic(scheduler)
	}

	machine := vm.NewVm(processors, memory, scheduler)
	machine.Verbose = verbose

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	asm := &isa.Assembler{}
	for equ, value := range machine.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	programId, err := machine.LoadProgram(prog)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	for n := 0; n < threads; n++ {
		_, err = machine.CreateThread(programId)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	err = machine.Run(maxCycles)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if trace {
		for _, event := range machine.ExecutionTrace() {
			fmt.Println(event)
		}
	}

	for _, fault := range machine.Faults() {
		fmt.Printf("fault: %v\n", fault)
	}

	report(machine)
}

// report prints the run summary, per-primitive counters, and ranked
// bottlenecks.
func report(machine *vm.Vm) {
	summary := machine.Summary()

	fmt.Printf("state:        %v after %d cycles\n", machine.State(), machine.Clock())
	fmt.Printf("instructions: %d (%.2f/cycle)\n", summary.Instructions, summary.InstructionsPerCyc)

	utilization := make([]string, len(summary.Utilization))
	for n, u := range summary.Utilization {
		utilization[n] = fmt.Sprintf("p%d %.0f%%", n, 100*u)
	}
	fmt.Printf("utilization:  %.0f%% (%s)\n", 100*summary.OverallUtilization, strings.Join(utilization, ", "))
	fmt.Printf("cache:        %.0f%% hit\n", 100*summary.CacheHitRate)
	fmt.Printf("serial:       %.0f%% of cycles\n", 100*summary.SerialFraction)

	stats := machine.Statistics()
	fmt.Printf("scheduler:    %s, %d calls, %d switches\n", stats.Policy, stats.ScheduleCalls, stats.ContextSwitches)

	threadIds := make([]int, 0, len(summary.Threads))
	for id := range summary.Threads {
		threadIds = append(threadIds, id)
	}
	sort.Ints(threadIds)
	for _, id := range threadIds {
		th := summary.Threads[id]
		fmt.Printf("  th%d: %d instructions, %d waits (%.0f%%), %d switches\n",
			id, th.Instructions, th.Waits, th.WaitPercent, th.ContextSwitches)
	}

	syncStats := machine.SyncStatistics()
	syncIds := make([]string, 0, len(syncStats))
	for id := range syncStats {
		syncIds = append(syncIds, id)
	}
	sort.Strings(syncIds)
	for _, id := range syncIds {
		s := syncStats[id]
		fmt.Printf("  sync %s: %d acquired, %d contended, %d released\n",
			id, s.Acquisitions, s.Contentions, s.Releases)
	}

	for _, b := range machine.Metrics.FindBottlenecks() {
		fmt.Printf("bottleneck:   %s (%.2f) - %s\n", b.Label, b.Severity, b.Recommendation)
	}
}
