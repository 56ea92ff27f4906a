package main

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// outcome is the result of processing one source file.
type outcome[T any] struct {
	File     sourceFile
	Value    T
	Err      error
	Duration time.Duration
}

// summary aggregates the outcomes of one run in input order.
type summary[T any] struct {
	Outcomes      []outcome[T]
	Succeeded     int
	Failed        int
	TotalDuration time.Duration
}

// runParallel applies fn to every file using at most workers goroutines.
// Outcomes keep the order of files. A cancelled ctx fails the files not yet started.
func runParallel[T any](ctx context.Context, files []sourceFile, workers int, fn func(sourceFile) (T, error)) *summary[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	s := &summary[T]{Outcomes: make([]outcome[T], len(files))}
	startTime := time.Now()
	workerPool := make(chan struct{}, workers)

	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)

		go func() {
			defer wg.Done()

			select {
			case workerPool <- struct{}{}:
				defer func() { <-workerPool }()
			case <-ctx.Done():
				s.Outcomes[i] = outcome[T]{File: file, Err: ctx.Err()}
				return
			}

			started := time.Now()
			value, err := fn(file)
			s.Outcomes[i] = outcome[T]{File: file, Value: value, Err: err, Duration: time.Since(started)}
		}()
	}

	wg.Wait()

	for _, o := range s.Outcomes {
		if o.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}

	s.TotalDuration = time.Since(startTime)

	return s
}
