package jobs

type JobType string

const (
	JobThumbnail JobType = "thumbnail"
	JobWelcome   JobType = "welcome"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobThumbnail, JobWelcome:
		return true
	default:
		return false
	}
}

// QueueKey is the redis list each job kind is enqueued on. The two
// pipelines share no state and must not block each other.
func (t JobType) QueueKey() string {
	return "queue:" + string(t)
}
