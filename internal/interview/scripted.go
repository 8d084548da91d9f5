package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/hitoshi/intervue/internal/model"
)

// ScriptedInterviewer はパックのロールとレベルからテンプレートベースで
// 質問を生成するInterviewer実装。質問数がパックの目安に達したら面接を終了する。
// 外部の会話AIバックエンドが使えない環境向けのデフォルト実装。
type ScriptedInterviewer struct{}

// NewScriptedInterviewer はScriptedInterviewerを生成する。
func NewScriptedInterviewer() *ScriptedInterviewer {
	return &ScriptedInterviewer{}
}

// questionTemplates は質問のテンプレート。%sにはパックのロールが入る。
var questionTemplates = []string{
	"これまでの%sとしての経験について教えてください。",
	"%sの業務で最も困難だった課題と、その解決方法を教えてください。",
	"チームでの開発において意識していることは何ですか。",
	"技術的な意思決定で失敗した経験と、そこから学んだことを教えてください。",
	"%sとして今後身につけたいスキルは何ですか。",
	"前職（または現職）で最も誇れる成果について教えてください。",
	"弊社のポジションに応募した理由を教えてください。",
	"仕事の優先順位はどのように決めていますか。",
}

// NextQuestion は次の質問を生成する。
// 回答数がパックの質問数の目安に達したらdone=trueを返す。
func (si *ScriptedInterviewer) NextQuestion(ctx context.Context, pack *model.InterviewPack, turns []*model.Turn) (string, bool, error) {
	answered := 0
	for _, turn := range turns {
		if turn.Role == model.TurnRoleCandidate {
			answered++
		}
	}

	if answered >= QuestionBudget(pack) {
		return "", true, nil
	}

	template := questionTemplates[answered%len(questionTemplates)]
	if strings.Contains(template, "%s") {
		return fmt.Sprintf(template, pack.Role), false, nil
	}
	return template, false, nil
}

// compile-time interface check
var _ Interviewer = (*ScriptedInterviewer)(nil)
