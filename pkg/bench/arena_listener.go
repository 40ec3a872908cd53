package bench

// Distributes arena events between several listeners
type ArenaListener struct {
	listeners []ListenerLike
}

func NewArenaListener(listeners ...ListenerLike) *ArenaListener {
	al := &ArenaListener{listeners: make([]ListenerLike, 0, len(listeners))}
	for _, l := range listeners {
		if l != nil {
			al.listeners = append(al.listeners, l)
		}
	}
	return al
}

func (al *ArenaListener) OnStart() {
	for _, l := range al.listeners {
		l.OnStart()
	}
}

func (al *ArenaListener) OnMoveMade(info VersusWorkerInfo) {
	for _, l := range al.listeners {
		l.OnMoveMade(info)
	}
}

func (al *ArenaListener) OnFinishedGame(info VersusWorkerInfo) {
	for _, l := range al.listeners {
		l.OnFinishedGame(info)
	}
}

func (al *ArenaListener) OnFinishedWork(info VersusWorkerInfo) {
	for _, l := range al.listeners {
		l.OnFinishedWork(info)
	}
}

func (al *ArenaListener) Summary(info VersusSummaryInfo) {
	for _, l := range al.listeners {
		l.Summary(info)
	}
}
