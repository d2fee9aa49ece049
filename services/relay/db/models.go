package db

type SubmissionLog struct {
	ID          string
	ReceivedAt  int64
	ClientIp    string
	ServiceType string
	Email       string
	Status      string
	ContactID   string
	Payload     string
}
