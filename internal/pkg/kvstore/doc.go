// Package kvstore provides the expiring key-value stores OTP records and
// attempt counters are kept in.
//
// Drivers:
//   - redis: go-redis, TTL enforced by the server.
//   - dynamodb: one item per key with a TTL attribute; items past their TTL
//     are hidden on read because DynamoDB deletes them lazily.
//   - memory: process local map, for local runs and tests.
//
// Every driver reports a missing key as goerror.ErrNotFound and treats
// deleting a missing key as success.
package kvstore
