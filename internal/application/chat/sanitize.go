package chat

import (
	"regexp"
	"strings"
)

// thinkPattern 匹配推理模型输出的思考块
// 本地推理模型会把思考过程包在 <think> 标签里输出，
// 意图识别和回答生成都必须先剥离再消费
var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>\n?`)

// StripReasoning 剥离模型输出中的思考块并去除首尾空白
func StripReasoning(output string) string {
	return strings.TrimSpace(thinkPattern.ReplaceAllString(output, ""))
}
