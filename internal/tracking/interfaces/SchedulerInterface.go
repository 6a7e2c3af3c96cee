package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Flush() error
}
