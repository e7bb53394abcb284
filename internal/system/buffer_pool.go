package system

import (
	"image"
	"sync"
)

// ImagePool повторно использует холсты *image.RGBA одного размера, чтобы
// покадровая растеризация не нагружала GC.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

// BytePool повторно использует буферы сканлайнов, сгруппированные по длине.
type BytePool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var (
	globalImages = &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
	globalBytes  = &BytePool{pools: make(map[int]*sync.Pool)}
)

// GetImage возвращает очищенный (полностью прозрачный) холст размера rect.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalImages.Get(rect)
}

// PutImage возвращает холст в пул.
func PutImage(img *image.RGBA) {
	globalImages.Put(img)
}

// GetBytes возвращает буфер длины n. Содержимое не обнуляется.
func GetBytes(n int) []byte {
	return globalBytes.Get(n)
}

// PutBytes возвращает буфер в пул.
func PutBytes(b []byte) {
	globalBytes.Put(b)
}

func (p *ImagePool) pool(rect image.Rectangle) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()
	if exists {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, exists = p.pools[rect]; !exists {
		pool = &sync.Pool{
			New: func() any {
				return image.NewRGBA(rect)
			},
		}
		p.pools[rect] = pool
	}
	return pool
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	img := p.pool(rect).Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

func (p *BytePool) pool(n int) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[n]
	p.mu.RUnlock()
	if exists {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, exists = p.pools[n]; !exists {
		pool = &sync.Pool{
			New: func() any {
				b := make([]byte, n)
				return &b
			},
		}
		p.pools[n] = pool
	}
	return pool
}

func (p *BytePool) Get(n int) []byte {
	if n <= 0 {
		return nil
	}
	return *p.pool(n).Get().(*[]byte)
}

func (p *BytePool) Put(b []byte) {
	if len(b) == 0 {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[len(b)]
	p.mu.RUnlock()

	if exists {
		pool.Put(&b)
	}
}
