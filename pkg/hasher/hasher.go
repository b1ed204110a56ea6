package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/content-organizer/pkg/logger"
)

// ChunkSize 每次读取的块大小
const ChunkSize = 1024 * 1024

type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	XXHash Algorithm = "xxhash"
)

// Algorithms 支持的哈希算法
var Algorithms = []Algorithm{SHA256, XXHash}

// ErrorDigest 读取失败文件的占位摘要，按路径唯一，不会与其他文件重复
func ErrorDigest(path string) string {
	return "error:" + path
}

type Hasher struct {
	fs        afero.Fs
	algorithm Algorithm
}

func New(fs afero.Fs, algorithm Algorithm) *Hasher {
	if algorithm == "" {
		algorithm = SHA256
	}
	return &Hasher{fs: fs, algorithm: algorithm}
}

func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

func (h *Hasher) newHash() (hash.Hash, error) {
	switch h.algorithm {
	case SHA256:
		return sha256.New(), nil
	case XXHash:
		return xxhash.New(), nil
	}
	return nil, fmt.Errorf("不支持的哈希算法: %s", h.algorithm)
}

// CalculateHash 分块读取文件并返回十六进制摘要
func (h *Hasher) CalculateHash(filePath string) (string, error) {
	logger.Get().Trace().Msgf("计算文件哈希: %s", filePath)

	digest, err := h.newHash()
	if err != nil {
		return "", err
	}

	file, err := h.fs.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(digest, file, buf); err != nil {
		return "", fmt.Errorf("计算哈希失败: %w", err)
	}

	return string(h.algorithm) + ":" + hex.EncodeToString(digest.Sum(nil)), nil
}

// Digest 计算文件摘要，读取失败时返回 ErrorDigest，不中断扫描
func (h *Hasher) Digest(filePath string) string {
	digest, err := h.CalculateHash(filePath)
	if err != nil {
		logger.Get().Warn().Err(err).Str("file", filePath).Msg("无法读取文件，使用占位哈希")
		return ErrorDigest(filePath)
	}
	return digest
}
