package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Simplified Chinese translations for CLI messages.
	l10n.Register("zh", l10n.LexiconMap{
		// Flag categories
		"Input":             "输入",
		"Output":            "输出",
		"Video and Quality": "视频与画质",
		"Flipping":          "镜像翻转",
		"Debug":             "调试",
		"Logging":           "日志",

		// Root command
		"Render an image into a video that mirrors on the beat of a MIDI track": "将图片渲染为随MIDI音轨节拍镜像翻转的视频",

		"mirrorbeat stretches the notes of one MIDI track over the video length and flips the image horizontally on every second note.": "mirrorbeat 将一条MIDI音轨的音符拉伸到视频时长，每两个音符水平翻转一次图片。",

		// Commands
		"Render and encode a mirrored video":                     "生成并编码镜像视频",
		"Write up to 10 seconds of preview frames as PNG images": "以PNG图片输出最多10秒的预览帧",
		"List the tracks of a MIDI file":                         "列出MIDI文件中的音轨",
		"Show which video codecs ffmpeg can encode":              "显示 ffmpeg 可用的视频编码",

		// Flags
		"YAML configuration file":                                     "YAML配置文件",
		"Zero-based track index (see the tracks command)":             "音轨序号，从0开始（见 tracks 命令）",
		"Resolution preset (720p, 1080p, 2k, 4k)":                     "分辨率预设（720p, 1080p, 2k, 4k）",
		"Custom output width (overrides resolution)":                  "自定义输出宽度（覆盖分辨率预设）",
		"Custom output height (overrides resolution)":                 "自定义输出高度（覆盖分辨率预设）",
		"Background color (hex, e.g., #000000)":                       "背景色（16进制，例如 #000000）",
		"Notes per mirror toggle (default: 2)":                        "每次镜像翻转的音符数（默认: 2）",
		"Log level (debug, info, warn, error)":                        "日志级别（debug, info, warn, error）",
		"Suppress all log output":                                     "不输出任何日志",
		"Output video path (default: midi-mirror-video-<time>.<ext>)": "输出视频路径（默认: midi-mirror-video-<时间>.<扩展名>）",
		"Write a Markdown summary of the run to this file":            "将运行摘要以Markdown格式写入该文件",
		"Frames per second (default: 30)":                             "帧率（默认: 30）",
		"Video duration in seconds (default: 15)":                     "视频时长，单位秒（默认: 15）",
		"Quality preset (balanced, high, ultra)":                      "画质预设（balanced, high, ultra）",
		"Codec preference, comma separated (default: vp9,vp8,h264)":   "编码优先级，逗号分隔（默认: vp9,vp8,h264）",
		"Bitrate in bits per second (overrides quality preset)":       "码率，单位 bps（覆盖画质预设）",
		"Path to the ffmpeg executable":                               "ffmpeg 可执行文件路径",
		"Enable debug output":                                         "启用调试输出",
		"Directory for debug output":                                  "调试输出目录",
		"Hide the progress bar":                                       "隐藏进度条",
		"Directory for preview frames":                                "预览帧输出目录",

		// Runtime messages
		"mirrorbeat version %s":                 "mirrorbeat 版本 %s",
		"Rendering":                             "生成帧",
		"Selected: %s":                          "已选择: %s",
		"MIDI and image arguments are required": "需要MIDI文件和图片参数",
		"MIDI argument is required":             "需要MIDI文件参数",

		// Summary content
		"Render Summary":  "渲染摘要",
		"Settings":        "设置",
		"Result":          "结果",
		"Flips":           "镜像翻转",
		"Item":            "项目",
		"Value":           "值",
		"Note File":       "MIDI文件",
		"Image":           "图片",
		"Track":           "音轨",
		"notes":           "个音符",
		"Resolution":      "分辨率",
		"Quality":         "画质",
		"Codec":           "编码",
		"fallback":        "回退",
		"Frame Rate":      "帧率",
		"Duration":        "时长",
		"Stride":          "翻转间隔",
		"Bitrate":         "码率",
		"Status":          "状态",
		"completed":       "已完成",
		"cancelled":       "已停止",
		"failed":          "失败",
		"Frames":          "帧数",
		"File Size":       "文件大小",
		"Video Duration":  "视频时长",
		"Frame":           "帧",
		"Time":            "时间",
		"Note":            "音符",
		"Mirrored":        "镜像",
		"... and %d more": "…… 另有 %d 次",
		"Generated at":    "生成于",
	})
}
