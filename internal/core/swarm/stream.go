package swarm

import (
	"sync"
	"time"

	pkgif "github.com/mothra-net/go-mothra/pkg/interfaces"
)

// stream 协议流
//
// 在多路复用流之上记录协商出的协议 ID 和所属会话，
// 读写活动会刷新会话的最近活动时间。
type stream struct {
	sess      *session
	ms        pkgif.MuxedStream
	proto     string
	closeOnce sync.Once
}

var _ pkgif.Stream = (*stream)(nil)

func newStream(sess *session, ms pkgif.MuxedStream, proto string) *stream {
	return &stream{
		sess:  sess,
		ms:    ms,
		proto: proto,
	}
}

// Read 读取数据
func (st *stream) Read(p []byte) (int, error) {
	n, err := st.ms.Read(p)
	if n > 0 {
		st.sess.touch()
	}
	return n, err
}

// Write 写入数据
func (st *stream) Write(p []byte) (int, error) {
	n, err := st.ms.Write(p)
	if n > 0 {
		st.sess.touch()
	}
	return n, err
}

// Close 关闭流
//
// 可多次调用；首次关闭时从会话的流计数中扣除。
func (st *stream) Close() error {
	var err error
	st.closeOnce.Do(func() {
		st.sess.releaseStream()
		err = st.ms.Close()
	})
	return err
}

// Protocol 返回流协商的协议标识
func (st *stream) Protocol() string {
	return st.proto
}

// Session 返回流所属的会话
func (st *stream) Session() pkgif.Session {
	return st.sess
}

// SetDeadline 设置读写截止时间
func (st *stream) SetDeadline(t time.Time) error {
	return st.ms.SetDeadline(t)
}

// SetReadDeadline 设置读截止时间
func (st *stream) SetReadDeadline(t time.Time) error {
	return st.ms.SetReadDeadline(t)
}

// SetWriteDeadline 设置写截止时间
func (st *stream) SetWriteDeadline(t time.Time) error {
	return st.ms.SetWriteDeadline(t)
}
