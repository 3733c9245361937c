package store

// Routing result queries.
const (
	queryInsertRoutingResult = `
		INSERT INTO routing_results (
			id, created_at, category, condition, primary_route,
			estimated_return, suggested_price, source, confidence, result
		) VALUES (
			@id, @created_at, @category, @condition, @primary_route,
			@estimated_return, @suggested_price, @source, @confidence, @result
		)`

	queryGetRoutingResult = `
		SELECT result FROM routing_results WHERE id = $1`
)

// Scheduler lock queries.
const (
	queryAcquireSchedulerLock = `
		INSERT INTO scheduler_locks (job_name, lock_holder, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_name) DO UPDATE
			SET locked_at   = now(),
				lock_holder = EXCLUDED.lock_holder,
				expires_at  = EXCLUDED.expires_at
			WHERE scheduler_locks.expires_at < now()
		RETURNING job_name`

	queryReleaseSchedulerLock = `
		DELETE FROM scheduler_locks WHERE job_name = $1 AND lock_holder = $2`
)
