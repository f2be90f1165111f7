package redisx

import "time"

const (
	// Idempotent create: idem:booking:create:{user_id}:{key} -> booking_id
	KeyIdemBookingCreate = "idem:booking:create:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
)
