package cache

import (
	"sync"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/sirupsen/logrus"
)

type update struct {
	summary models.RoomSummary
	removed bool
}

// Publisher mirrors room changes into a Directory from a single background
// worker, so callers never wait on the directory's I/O. When the queue is
// full the update is dropped; the next change to that room repairs it.
type Publisher struct {
	dir     Directory
	log     logrus.FieldLogger
	updates chan update
	done    chan struct{}
	once    sync.Once
}

func NewPublisher(dir Directory, size int, log logrus.FieldLogger) *Publisher {
	if size <= 0 {
		size = 256
	}
	p := &Publisher{
		dir:     dir,
		log:     log.WithField("component", "directory"),
		updates: make(chan update, size),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Publisher) RoomChanged(summary models.RoomSummary) {
	p.enqueue(update{summary: summary})
}

func (p *Publisher) RoomRemoved(summary models.RoomSummary) {
	p.enqueue(update{summary: summary, removed: true})
}

func (p *Publisher) enqueue(u update) {
	select {
	case p.updates <- u:
	default:
		p.log.WithField("room", u.summary.Id).Warn("directory queue full, update dropped")
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for u := range p.updates {
		var err error
		if u.removed {
			err = p.dir.Remove(u.summary)
		} else {
			err = p.dir.Publish(u.summary)
		}
		if err != nil {
			p.log.WithError(err).WithField("room", u.summary.Id).Error("directory update failed")
		}
	}
}

// Close drains queued updates and stops the worker. No updates may be
// sent after Close.
func (p *Publisher) Close() {
	p.once.Do(func() {
		close(p.updates)
	})
	<-p.done
}
