package domain

// SyncResult reports one sync pass over a record stream.
// Processed counts every record seen, including ones whose parse or upsert
// failed; Failed counts only those failures, so callers can assert on
// partial-failure behaviour instead of reading log lines.
type SyncResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// AccountSyncResult is the outcome of one account's transaction sync task.
// Err is non-nil when the task itself died (watermark resolution or a page
// fetch); record-level failures land in Failed and leave Err nil.
type AccountSyncResult struct {
	AccountID   string `json:"accountID"`
	DisplayName string `json:"displayName"`
	SyncResult
	Err error `json:"-"`
}

// SyncSummary is the overall outcome of a full sync run.
type SyncSummary struct {
	RunID        string              `json:"runID"`
	Accounts     SyncResult          `json:"accounts"`
	Transactions []AccountSyncResult `json:"transactions"`
}

// Failures returns the per-account results whose task failed outright.
func (s *SyncSummary) Failures() []AccountSyncResult {
	var failed []AccountSyncResult
	for _, r := range s.Transactions {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
