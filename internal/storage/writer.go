package storage

import (
	"fmt"

	"modguard/internal/logging"

	"github.com/goccy/go-json"
)

type writeJob struct {
	name string
	data []byte
	done chan error
}

// writer drains the job queue so the event-processing path never blocks on
// disk I/O. One goroutine keeps writes to the same document ordered.
func (s *Store) writer() {
	defer close(s.done)
	for job := range s.jobs {
		err := s.write(job.name, job.data)
		if err != nil {
			// In-memory state stays authoritative; loss only happens if the
			// process dies before the next successful save.
			logging.Error("Persistence write failed for %s: %v", job.name, err)
		}
		if job.done != nil {
			job.done <- err
		}
	}
}

func (s *Store) enqueue(name string, doc interface{}, done chan error) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", name, err)
	}
	s.jobs <- writeJob{name: name, data: data, done: done}
	return nil
}

// Save queues an asynchronous write. Serialization happens on the caller's
// goroutine so the document is snapshotted at call time.
func (s *Store) Save(name string, doc interface{}) {
	if err := s.enqueue(name, doc, nil); err != nil {
		logging.Error("%v", err)
	}
}

// SaveSync queues a write and waits for it to hit disk. Used by callers that
// need a completion guarantee before returning (warning mutations, shutdown).
func (s *Store) SaveSync(name string, doc interface{}) error {
	done := make(chan error, 1)
	if err := s.enqueue(name, doc, done); err != nil {
		return err
	}
	return <-done
}

// Close drains pending writes and stops the writer. The store must not be
// used afterwards.
func (s *Store) Close() {
	close(s.jobs)
	<-s.done
}
