package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

// MaxFrameSize 单帧大小上限（1 MiB）
//
// 超过上限的入站帧视为协议违规，出站帧视为调用方错误。
const MaxFrameSize = 1 << 20

// ErrFrameTooLarge 帧超过 MaxFrameSize
var ErrFrameTooLarge = errors.New("wire: frame exceeds size limit")

// Message 约束可在流上分帧传输的消息
//
// 由本包生成的 protobuf 类型实现。
type Message interface {
	Size() int
	MarshalTo(dAtA []byte) (int, error)
	Unmarshal(dAtA []byte) error
}

// WriteFrame 将消息以 uvarint 长度前缀格式写入流
//
// 长度前缀和消息体合并为单次 Write，避免半帧交错。
func WriteFrame(w io.Writer, msg Message) error {
	size := msg.Size()
	if size > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	buf := make([]byte, varint.UvarintSize(uint64(size))+size)
	n := varint.PutUvarint(buf, uint64(size))
	if _, err := msg.MarshalTo(buf[n:]); err != nil {
		return fmt.Errorf("wire: marshal frame: %w", err)
	}

	if _, err := w.Write(buf); err != nil {
		return err
	}
	return nil
}

// ReadFrame 从流中读取一个 uvarint 长度前缀帧并反序列化到 msg
func ReadFrame(r io.Reader, msg Message) error {
	size, err := varint.ReadUvarint(asByteReader(r))
	if err != nil {
		return err
	}
	if size > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}

	if err := msg.Unmarshal(buf); err != nil {
		return fmt.Errorf("wire: unmarshal frame: %w", err)
	}
	return nil
}

// asByteReader 复用底层 ByteReader，否则包一层单字节读取
func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReader{r: r}
}

type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (br *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(br.r, br.buf[:]); err != nil {
		return 0, err
	}
	return br.buf[0], nil
}
