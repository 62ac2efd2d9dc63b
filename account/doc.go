// Package account defines the account record, its closed role and provider
// enums, and the Store contract that persistence backends implement.
//
// Email is the natural key: a Store must reject a second account with the
// same email by returning ErrDuplicateEmail, even under concurrent creation.
// MemoryStore is the in-process implementation; sqlstore and redisstore
// provide durable backends.
package account
