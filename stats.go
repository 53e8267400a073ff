package limlog

// StatsSnapshot is a point-in-time copy of a Facade's running counters: how
// many times the sink has written to its Writer, how much time that took in
// total, how many bytes and records have moved through the system, and how
// many records were dropped because they overflowed their ring.
type StatsSnapshot struct {
	SinkCount         uint64
	TotalSinkMicros   uint64
	TotalConsumeBytes uint64
	LogCount          uint64
	DroppedRecords    uint64
	RegisteredBuffers int
}

// AverageSinkMicros returns the mean duration, in microseconds, of a single
// call to the configured Writer, or 0 if the sink has not written yet.
func (s StatsSnapshot) AverageSinkMicros() float64 {
	if s.SinkCount == 0 {
		return 0
	}
	return float64(s.TotalSinkMicros) / float64(s.SinkCount)
}

// AverageConsumeBytes returns the mean number of bytes handed to the Writer
// per call, or 0 if the sink has not written yet.
func (s StatsSnapshot) AverageConsumeBytes() float64 {
	if s.SinkCount == 0 {
		return 0
	}
	return float64(s.TotalConsumeBytes) / float64(s.SinkCount)
}
