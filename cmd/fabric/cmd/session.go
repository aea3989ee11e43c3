package cmd

import (
	"github.com/go-drift/fabric/pkg/config"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/mounting"
	"github.com/go-drift/fabric/pkg/platform"
	"github.com/go-drift/fabric/pkg/scheduler"
	"github.com/go-drift/fabric/pkg/textlayout"
	"github.com/go-drift/fabric/pkg/treefile"
)

// session plays a document through a scheduler whose host is a bridge
// mounting on the committing goroutine.
type session struct {
	doc       *treefile.Document
	scheduler *scheduler.Scheduler
	bridge    *platform.MountingBridge
	tree      *mounting.ShadowTree
	player    *treefile.Player
	messages  []*platform.TransactionMessage
}

type sessionOptions struct {
	config        *config.Config
	text          *textlayout.Manager
	maintainOrder bool
}

func newSession(doc *treefile.Document, opts sessionOptions) (*session, error) {
	s := &session{doc: doc}
	s.bridge = platform.NewMountingBridge(platform.HostMounterFunc(s.executeMount), platform.BridgeOptions{
		Dispatcher:            platform.Synchronous,
		MaintainMutationOrder: opts.maintainOrder,
		DidMount:              func(id core.SurfaceID) { s.scheduler.ReportMount(id) },
	})
	sched, err := scheduler.New(scheduler.Toolbox{
		Config:            opts.config,
		TextLayoutManager: opts.text,
		Delegate:          s.bridge,
	})
	if err != nil {
		return nil, err
	}
	s.scheduler = sched
	tree, err := sched.StartSurface(doc.Surface, doc.Constraints())
	if err != nil {
		return nil, err
	}
	s.tree = tree
	s.player = treefile.NewPlayer(sched.UIManager(), doc)
	return s, nil
}

func (s *session) executeMount(msg *platform.TransactionMessage) error {
	s.messages = append(s.messages, msg)
	return nil
}

// step plays the next step and returns the messages mounted for it.
func (s *session) step() (bool, []*platform.TransactionMessage, error) {
	before := len(s.messages)
	ok, err := s.player.Step()
	return ok, s.messages[before:], err
}

// views returns the views the host shows.
func (s *session) views() *mounting.StubViewTree {
	return mounting.BuildStubViewTree(s.tree.MountingCoordinator().MountedRevision().Root)
}

func (s *session) close() {
	s.scheduler.StopSurface(s.doc.Surface)
}
