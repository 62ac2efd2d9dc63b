// Package redis wraps go-redis with a key namespace, pool configuration and
// component lifecycle support. ClaimAndSet writes a document and its unique
// index in one atomic step; the redis account store is built on it.
//
// ClaimAndSet runs a script over two keys. On Redis Cluster both keys must
// carry the same {hash tag}; Key passes tags through unchanged.
package redis
