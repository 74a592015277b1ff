package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("zh", l10n.LexiconMap{
		// Run level
		"Starting render":                       "开始渲染",
		"Rendering %s with %s (%d fps, %.1f s)": "正在渲染 %s，音轨 %s（%d FPS，%.1f 秒）",
		"Render completed: %d flips":            "视频生成完成！%d次镜像翻转",
		"Output saved to %s":                    "已保存到 %s",
		"Interrupted, shutting down...":         "已中断，正在停止...",
		"Summary written to %s":                 "摘要已写入 %s",
		"Failed to write summary: %s":           "写入摘要失败: %s",

		// Inputs
		"Loaded %d tracks from %s":   "MIDI文件加载成功！包含 %d 个音轨（%s）",
		"Selected %s with %d notes":  "已选择: %s，包含 %d 个音符",
		"Failed to load notes: %s":   "MIDI文件加载失败: %s",
		"Failed to read image: %s":   "读取图片失败: %s",
		"Failed to decode image: %s": "图片加载失败: %s",
		"Source image: %dx%d":        "图片分辨率: %d×%d",

		// Preview
		"Previewing %s: %d notes":                "预览中 - 音轨: %s，共 %d 个音符",
		"Preview completed: %d frames, %d flips": "预览完成，%d 帧，共 %d 次镜像翻转",
		"Preview frames written to %s":           "预览帧已写入 %s",

		// Stream
		"Session %s": "会话 %s",
		"Streaming %d frames at %d fps (%d notes)":    "生成 %d 帧，%d FPS（%d 个音符）",
		"Frame %d: flip on note %d (%s), mirrored=%t": "第 %d 帧: 音符 %d（%s）触发翻转，镜像=%t",
		"Cancelled after %d of %d frames":             "已停止，完成 %d/%d 帧",
		"Stream completed: %d frames, %d flips":       "帧流完成: %d 帧，%d 次翻转",
		"Failed to render frame %d: %s":               "渲染第 %d 帧失败: %s",
		"Sink rejected frame %d: %s":                  "第 %d 帧写入失败: %s",
		"Failed to finalize stream: %s":               "结束帧流失败: %s",
		"Failed to stream frames: %s":                 "视频生成失败: %s",
		"Ignored panic in %s callback: %v":            "已忽略 %s 回调中的 panic: %v",

		// Debug output
		"Failed to save debug frame %d: %s": "保存调试帧 %d 失败: %s",
		"Failed to save debug timeline: %s": "保存调试时间轴失败: %s",
		"Failed to save debug flips: %s":    "保存调试翻转记录失败: %s",

		// Encoding
		"Codec %s not available":                       "编码器 %s 不可用",
		"%s encoder not available, falling back to %s": "%s 编码器不可用，回退到 %s",
		"No usable video encoder: %s":                  "没有可用的视频编码器: %s",
		"Encoding %s at %d bps":                        "使用 %s 编码，码率 %d bps",
		"Failed to start encoder: %s":                  "启动编码器失败: %s",
		"Encoding aborted after %d frames":             "编码在 %d 帧后中止",
		"Video encoded: %d bytes":                      "视频编码完成: %d 字节",
		"Could not verify output: %s":                  "无法校验输出: %s",
		"Output codec %s does not match %s":            "输出编码 %s 与 %s 不一致",
		"Failed to write output: %s":                   "写入输出失败: %s",

		// ffmpeg
		"ffmpeg not found: %s":               "未找到 ffmpeg: %s",
		"Failed to list ffmpeg encoders: %s": "获取 ffmpeg 编码器列表失败: %s",
		"Starting %s with %s":                "启动 %s，参数 %s",
		"Encoded %d frames to %d bytes":      "已编码 %d 帧，共 %d 字节",
	})
}
