package encode

import (
	"errors"
	"image"
	"testing"

	"github.com/user/mirrorbeat/pkg/adapters/logger"
	"github.com/user/mirrorbeat/pkg/mocks"
	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
)

func testSession() pipeline.RenderSession {
	return pipeline.RenderSession{
		FrameRate:             30,
		OutputDurationSeconds: 1,
		Output:                pipeline.Dimension{Width: 64, Height: 36},
	}
}

func frame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 64, 36))
}

func TestSink_Encode(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}
	sink := NewSink(mockEncoder, logger.NewNoop())

	opts := ports.EncoderOptions{Codec: ports.CodecVP9, Bitrate: 5_000_000}
	if err := sink.Begin(testSession(), opts); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if !mockEncoder.BeginCalled || mockEncoder.BeginOptions != opts {
		t.Errorf("expected Begin with %+v, got %+v", opts, mockEncoder.BeginOptions)
	}

	for i := 0; i < 3; i++ {
		if err := sink.WriteFrame(i, frame()); err != nil {
			t.Fatalf("WriteFrame(%d) failed: %v", i, err)
		}
	}

	result, err := sink.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if !mockEncoder.EndCalled {
		t.Error("expected End to be called")
	}

	wantTimestamps := []int{0, 33, 67}
	if len(mockEncoder.EncodeFrameCalls) != len(wantTimestamps) {
		t.Fatalf("expected %d EncodeFrame calls, got %d", len(wantTimestamps), len(mockEncoder.EncodeFrameCalls))
	}
	for i, want := range wantTimestamps {
		if got := mockEncoder.EncodeFrameCalls[i].TimestampMs; got != want {
			t.Errorf("frame %d: expected timestamp %d, got %d", i, want, got)
		}
	}

	if result.FrameCount != 3 || result.DurationMs != 100 {
		t.Errorf("expected 3 frames / 100ms, got %d / %d", result.FrameCount, result.DurationMs)
	}
	if len(result.VideoData) == 0 || result.FileSize != int64(len(result.VideoData)) {
		t.Errorf("unexpected video data: %d bytes, size %d", len(result.VideoData), result.FileSize)
	}
}

func TestSink_OrderAndSize(t *testing.T) {
	sink := NewSink(&mocks.VideoEncoder{}, logger.NewNoop())
	if err := sink.WriteFrame(0, frame()); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if err := sink.Begin(testSession(), ports.EncoderOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := sink.WriteFrame(1, frame()); err == nil {
		t.Error("expected error for out-of-order frame")
	}
	if err := sink.WriteFrame(0, image.NewRGBA(image.Rect(0, 0, 10, 10))); err == nil {
		t.Error("expected error for wrong frame size")
	}
	if sink.Frames() != 0 {
		t.Errorf("rejected frames must not count, got %d", sink.Frames())
	}
}

func TestSink_EncoderErrors(t *testing.T) {
	boom := errors.New("pipe closed")

	t.Run("begin", func(t *testing.T) {
		sink := NewSink(&mocks.VideoEncoder{
			BeginFunc: func(int, int, float64, ports.EncoderOptions) error { return boom },
		}, logger.NewNoop())
		if err := sink.Begin(testSession(), ports.EncoderOptions{}); !errors.Is(err, boom) {
			t.Errorf("expected wrapped error, got %v", err)
		}
	})

	t.Run("frame", func(t *testing.T) {
		sink := NewSink(&mocks.VideoEncoder{
			EncodeFrameFunc: func(image.Image, int) error { return boom },
		}, logger.NewNoop())
		if err := sink.Begin(testSession(), ports.EncoderOptions{}); err != nil {
			t.Fatal(err)
		}
		if err := sink.WriteFrame(0, frame()); !errors.Is(err, boom) {
			t.Errorf("expected wrapped error, got %v", err)
		}
	})

	t.Run("end", func(t *testing.T) {
		sink := NewSink(&mocks.VideoEncoder{
			EndFunc: func() ([]byte, error) { return nil, boom },
		}, logger.NewNoop())
		if err := sink.Begin(testSession(), ports.EncoderOptions{}); err != nil {
			t.Fatal(err)
		}
		if _, err := sink.Finish(); !errors.Is(err, boom) {
			t.Errorf("expected wrapped error, got %v", err)
		}
	})
}

func TestSink_Abort(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}
	sink := NewSink(mockEncoder, logger.NewNoop())

	sink.Abort()
	if mockEncoder.AbortCalled {
		t.Error("abort before Begin must not reach the encoder")
	}

	if err := sink.Begin(testSession(), ports.EncoderOptions{}); err != nil {
		t.Fatal(err)
	}
	sink.Abort()
	if !mockEncoder.AbortCalled {
		t.Error("expected encoder Abort")
	}
	if _, err := sink.Finish(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Finish after Abort: expected ErrNotStarted, got %v", err)
	}
	if mockEncoder.EndCalled {
		t.Error("End must not be called after Abort")
	}
}

func TestSink_InvalidSession(t *testing.T) {
	sink := NewSink(&mocks.VideoEncoder{}, logger.NewNoop())
	s := testSession()
	s.FrameRate = 0
	if err := sink.Begin(s, ports.EncoderOptions{}); !errors.Is(err, pipeline.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct{ index, fps, want int }{
		{0, 30, 0},
		{1, 30, 33},
		{2, 30, 67},
		{30, 30, 1000},
		{5, 24, 208},
		{1, 1, 1000},
	}
	for _, tt := range tests {
		if got := Timestamp(tt.index, tt.fps); got != tt.want {
			t.Errorf("Timestamp(%d, %d) = %d, want %d", tt.index, tt.fps, got, tt.want)
		}
	}
}
