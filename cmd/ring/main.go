package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/comm-runtime/buffer"
	"github.com/wippyai/comm-runtime/comm"
	"github.com/wippyai/comm-runtime/engine"
	"github.com/wippyai/comm-runtime/universe"
)

func main() {
	var (
		ranks       = flag.Int("ranks", 4, "Number of simulated ranks")
		count       = flag.Int("count", 8, "Elements per ring message")
		rounds      = flag.Int("rounds", 1, "Ring circulations")
		verbose     = flag.Bool("v", false, "Verbose substrate logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		engine.SetLogger(logger)
	}

	if *interactive {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if err := runInteractive(*ranks, *count); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// Not a terminal: fall through to plain output.
		fmt.Fprintln(os.Stderr, "stdout is not a terminal, running non-interactively")
	}

	report, err := runRing(*ranks, *count, *rounds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(report)
}

type rankReport struct {
	rank     int
	sent     int
	received int
	checksum float64
	token    int64
	gathered []int32
}

// runRing simulates a ring exchange over the loopback engine: every rank
// sends a payload to its successor and receives from its predecessor,
// then all ranks join a broadcast, a gather, and a barrier.
func runRing(size, count, rounds int) (string, error) {
	if size < 1 {
		return "", fmt.Errorf("ranks must be at least 1, got %d", size)
	}
	if count < 0 {
		return "", fmt.Errorf("count must be non-negative, got %d", count)
	}
	if rounds < 1 {
		return "", fmt.Errorf("rounds must be at least 1, got %d", rounds)
	}

	x, err := engine.NewExchange(size)
	if err != nil {
		return "", err
	}

	reports := make([]rankReport, size)
	errs := make([]error, size)
	var wg sync.WaitGroup
	for r := 0; r < size; r++ {
		port, err := x.Attach(r)
		if err != nil {
			return "", err
		}
		u, err := universe.Initialize(port)
		if err != nil {
			return "", err
		}
		world, err := u.World()
		if err != nil {
			return "", err
		}
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			defer u.Close()
			reports[r], errs[r] = ringRank(world, count, rounds)
		}(r)
	}
	wg.Wait()

	for r, err := range errs {
		if err != nil {
			return "", fmt.Errorf("rank %d: %w", r, err)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ring exchange: %d ranks, %d elements, %d round(s)\n\n", size, count, rounds)
	for _, rep := range reports {
		fmt.Fprintf(&b, "rank %d: sent %d, received %d, checksum %.4f\n",
			rep.rank, rep.sent, rep.received, rep.checksum)
	}
	fmt.Fprintf(&b, "\nbroadcast token at rank %d: %d\n", size-1, reports[size-1].token)
	fmt.Fprintf(&b, "gathered ranks at root: %v\n", reports[0].gathered)
	return b.String(), nil
}

func ringRank(world *comm.Communicator, count, rounds int) (rankReport, error) {
	rank, size := world.Rank(), world.Size()
	rep := rankReport{rank: rank}

	next, err := world.Process((rank + 1) % size)
	if err != nil {
		return rep, err
	}
	prev, err := world.Process((rank - 1 + size) % size)
	if err != nil {
		return rep, err
	}

	payload := make([]float64, count)
	for i := range payload {
		payload[i] = float64(rank) + float64(i)/1000
	}

	inbound := make([]float64, count)
	for round := 0; round < rounds; round++ {
		sv, err := buffer.Send(payload)
		if err != nil {
			return rep, err
		}
		rv, err := buffer.Recv(inbound)
		if err != nil {
			return rep, err
		}

		// Standard-mode sends complete once the payload is copied, so
		// send-before-receive cannot deadlock on the loopback engine.
		if err := next.Send(sv, round); err != nil {
			return rep, err
		}
		st, err := prev.Receive(rv, round)
		if err != nil {
			return rep, err
		}
		rep.sent += count
		rep.received += st.Count
		for _, v := range inbound {
			rep.checksum += v
		}
	}

	// Rank 0 announces a token to everyone.
	token := make([]int64, 1)
	if rank == 0 {
		token[0] = 42
	}
	bv, err := buffer.Recv(token)
	if err != nil {
		return rep, err
	}
	if err := world.Broadcast(bv, 0); err != nil {
		return rep, err
	}
	rep.token = token[0]

	// Root collects every rank's id in rank order.
	gs, err := buffer.Send([]int32{int32(rank)})
	if err != nil {
		return rep, err
	}
	all := make([]int32, size)
	gr, err := buffer.Recv(all)
	if err != nil {
		return rep, err
	}
	if err := world.Gather(gs, gr, 0); err != nil {
		return rep, err
	}
	if rank == 0 {
		rep.gathered = all
	}

	if err := world.Barrier(); err != nil {
		return rep, err
	}
	return rep, nil
}
