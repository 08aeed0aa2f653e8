package config

type WorkerKeyStruct struct {
	PersistIntegrityQueue string
	PersistScoresQueue    string
	PersistReportQueue    string
}

var WorkerKey = &WorkerKeyStruct{
	PersistIntegrityQueue: "persist_integrity_queue",
	PersistScoresQueue:    "persist_scores_queue",
	PersistReportQueue:    "persist_report_queue",
}
