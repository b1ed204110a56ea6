package hasher

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/moyu-x/content-organizer/pkg/logger"
)

// DefaultBufferSize 任务与结果通道的缓冲大小
const DefaultBufferSize = 1000

type HashTask struct {
	Path string
}

type HashResult struct {
	Path   string
	Digest string
	Error  error
}

// HashPool 使用 goroutine 池并发计算文件摘要
type HashPool struct {
	hasher  *Hasher
	workers int
	tasks   chan HashTask
	results chan HashResult
	wg      sync.WaitGroup
	pool    *ants.Pool
}

func NewHashPool(hasher *Hasher, workers int) *HashPool {
	if workers < 1 {
		workers = 1
	}
	logger.Get().Debug().Msgf("创建哈希计算池，工作线程数: %d", workers)
	return &HashPool{
		hasher:  hasher,
		workers: workers,
		tasks:   make(chan HashTask, DefaultBufferSize),
		results: make(chan HashResult, DefaultBufferSize),
	}
}

func (p *HashPool) Start() error {
	pool, err := ants.NewPool(p.workers)
	if err != nil {
		logger.Get().Error().Err(err).Msg("创建 goroutine 池失败")
		return err
	}
	p.pool = pool

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		if err := p.pool.Submit(p.worker); err != nil {
			p.wg.Done()
			return err
		}
	}
	return nil
}

func (p *HashPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		digest, err := p.hasher.CalculateHash(task.Path)
		p.results <- HashResult{
			Path:   task.Path,
			Digest: digest,
			Error:  err,
		}
	}
}

func (p *HashPool) AddTask(task HashTask) {
	p.tasks <- task
}

func (p *HashPool) Results() <-chan HashResult {
	return p.results
}

// Close 停止接收任务，等待所有 worker 退出后关闭结果通道
func (p *HashPool) Close() {
	close(p.tasks)
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
	close(p.results)
}

// DigestAll 并发计算所有文件的摘要，读取失败的文件得到 ErrorDigest
func (h *Hasher) DigestAll(paths []string, workers int) (map[string]string, error) {
	digests := make(map[string]string, len(paths))
	if workers <= 1 {
		for _, path := range paths {
			digests[path] = h.Digest(path)
		}
		return digests, nil
	}

	pool := NewHashPool(h, workers)
	if err := pool.Start(); err != nil {
		pool.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range pool.Results() {
			if result.Error != nil {
				logger.Get().Warn().Err(result.Error).Str("file", result.Path).Msg("无法读取文件，使用占位哈希")
				digests[result.Path] = ErrorDigest(result.Path)
				continue
			}
			digests[result.Path] = result.Digest
		}
	}()

	for _, path := range paths {
		pool.AddTask(HashTask{Path: path})
	}
	pool.Close()
	<-done

	return digests, nil
}
