package router

import "go.jacobcolvin.com/logrouter/record"

type previewEvent struct {
	message string
	level   record.Level
	nature  record.Nature
}

// previewEvents is a rotating set of realistic sample records covering every
// level, nature, and message shape the facilities render.
var previewEvents = []previewEvent{
	{
		level:  record.LevelDebug,
		nature: record.NatureInfo,
		message: "TFMA gateway bootstrapped env='staging' region='eu-central-1' " +
			"host='https://api.tfma.local' timeout_ms=4500",
	},
	{
		level:  record.LevelInfo,
		nature: record.NatureInfo,
		message: "TFMA request accepted: method='POST' endpoint='/v1/sessions' status=201 " +
			"request_id='req_A11F20' tenant='acme_retail' elapsed_ms=84",
	},
	{
		level:  record.LevelDebug,
		nature: record.NatureInfo,
		message: "TFMA auth cache lookup: key='tenant:acme_retail:scope=orders.write' " +
			"cache_hit=true ttl_sec=287",
	},
	{
		level:  record.LevelInfo,
		nature: record.NatureWarning,
		message: "TFMA request throttled: endpoint='/v1/orders/search' status=429\n" +
			"request_id='req_7F9A21' tenant_id='acme_eu_west' elapsed_ms=987\n" +
			"action='sleep_and_retry' retry_after_ms=1200",
	},
	{
		level:  record.LevelInfo,
		nature: record.NatureInfo,
		message: "TFMA response accepted: endpoint='/v1/orders/search' status=200 items=128\n" +
			"cursor='next_01HZX8W9' cache_hit=true parse_mode='strict-json'",
	},
	{
		level:  record.LevelDebug,
		nature: record.NatureInfo,
		message: "TFMA model inference metrics: model='risk-v2' feature_count=42 " +
			"compute_ms=36 queue_depth=3",
	},
	{
		level:  record.LevelInfo,
		nature: record.NatureWarning,
		message: "TFMA upstream latency elevated: upstream='ledger-core' p95_ms=812 " +
			"p99_ms=1204 circuit_state='half-open'",
	},
	{
		level:  record.LevelInfo,
		nature: record.NatureError,
		message: "TFMA upstream failure: endpoint='/v1/payments/settle' status=503 " +
			"request_id='req_92BQ11' correlation_id='corr_3aa7' attempt=3",
	},
	{
		level:   record.LevelDebug,
		nature:  record.NatureInfo,
		message: "TFMA fallback route disabled reason='strict_mode' feature_flag='disable_fallbacks' value=true",
	},
	{
		level:  record.LevelInfo,
		nature: record.NatureInfo,
		message: "TFMA health heartbeat: api_status='degraded' worker_pool='active' " +
			"active_workers=12 queued_jobs=27",
	},
}

// Preview emits the next record from a rotating set of sample events to all
// facilities, for visually checking facility output.
func (r *Router) Preview() error {
	r.mu.Lock()
	event := previewEvents[r.previewIndex%len(previewEvents)]
	r.previewIndex++
	r.mu.Unlock()

	return r.Log(event.message, event.level, event.nature, nil)
}
