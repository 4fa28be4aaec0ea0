package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"go.uber.org/zap"

	"factor-frenzy/internal/challenge"
)

const hintQuery = "data.frenzy.hint.message"

// DefaultRegoPolicy expresses the built-in hint rules in Rego. The else chain
// keeps first-match-wins ordering.
var DefaultRegoPolicy = fmt.Sprintf(`package frenzy.hint

default message := %q

message := %q if {
	input.n %% 2 == 0
} else := %q if {
	input.n %% 3 == 0
} else := %q if {
	input.n > 100
}
`, challenge.HintSmall, challenge.HintEven, challenge.HintThree, challenge.HintLarge)

// OPAHinter evaluates a Rego policy that defines data.frenzy.hint.message.
type OPAHinter struct {
	query    rego.PreparedEvalQuery
	fallback Hinter
	logger   *zap.Logger
}

// NewOPAHinter compiles policy and prepares the hint query. An empty policy
// uses DefaultRegoPolicy. logger may be nil.
func NewOPAHinter(ctx context.Context, policy string, logger *zap.Logger) (*OPAHinter, error) {
	if policy == "" {
		policy = DefaultRegoPolicy
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	compiler, err := ast.CompileModules(map[string]string{"hint.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile hint policy: %w", err)
	}
	pq, err := rego.New(
		rego.Query(hintQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare hint query: %w", err)
	}
	return &OPAHinter{query: pq, fallback: RuleHinter{}, logger: logger}, nil
}

// LoadOPAHinter reads a Rego policy from path and compiles it.
func LoadOPAHinter(ctx context.Context, path string, logger *zap.Logger) (*OPAHinter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hint policy: %w", err)
	}
	return NewOPAHinter(ctx, string(b), logger)
}

// Hint implements Hinter. Evaluation errors and undefined or non-string
// results fall back to the built-in rules.
func (h *OPAHinter) Hint(ctx context.Context, n int64) string {
	msg, err := h.eval(ctx, n)
	if err != nil {
		h.logger.Warn("hint policy evaluation failed, using built-in rules",
			zap.Int64("target", n), zap.Error(err))
		return h.fallback.Hint(ctx, n)
	}
	return msg
}

// HealthCheck evaluates the policy against a sample target.
func (h *OPAHinter) HealthCheck(ctx context.Context) error {
	_, err := h.eval(ctx, 21)
	return err
}

func (h *OPAHinter) eval(ctx context.Context, n int64) (string, error) {
	input := map[string]interface{}{
		"n": json.Number(strconv.FormatInt(n, 10)),
	}
	rs, err := h.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("eval hint policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return "", fmt.Errorf("hint policy returned no result")
	}
	msg, ok := rs[0].Expressions[0].Value.(string)
	if !ok || msg == "" {
		return "", fmt.Errorf("hint policy returned %T, want non-empty string", rs[0].Expressions[0].Value)
	}
	return msg, nil
}
