package client

import (
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// TokenStore 客户端 Token 持久化
// Load 在没有 Token 时返回空字符串和 nil
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// ── bbolt 实现 ──

var (
	sessionBucket = []byte("session")
	tokenKey      = []byte("token")
)

// BoltTokenStore 基于 bbolt 文件的 TokenStore，进程重启后仍保留登录状态
type BoltTokenStore struct {
	db *bolt.DB
}

// OpenBoltTokenStore 打开（必要时创建）Token 数据库
func OpenBoltTokenStore(path string) (*BoltTokenStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("打开 Token 数据库失败: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化 Token 数据库失败: %w", err)
	}

	return &BoltTokenStore{db: db}, nil
}

func (s *BoltTokenStore) Load() (string, error) {
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(sessionBucket).Get(tokenKey); v != nil {
			token = string(v)
		}
		return nil
	})
	return token, err
}

func (s *BoltTokenStore) Save(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(tokenKey, []byte(token))
	})
}

func (s *BoltTokenStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(tokenKey)
	})
}

// Close 关闭数据库文件
func (s *BoltTokenStore) Close() error {
	return s.db.Close()
}

// ── 内存实现 ──

// MemoryTokenStore 进程内 TokenStore
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore 创建内存 TokenStore，可带初始 Token
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
