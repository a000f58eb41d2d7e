package session

func ActiveLocks(r *Registry) int { return r.activeLocks() }

var StartTTLWorkerEvery = startTTLWorker
