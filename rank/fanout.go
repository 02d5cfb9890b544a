package rank

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pipeline"
	"github.com/rushteam/agrikit/pkg/utils"
)

// 合并策略
const (
	MergePrimary = "primary" // 只用首个成功策略的分数，后续策略只补充 labels
	MergeMean    = "mean"    // 同名作物取各策略分数的算术平均
)

// Fanout 并发执行多个打分策略并合并结果。
// 策略按声明顺序即优先级顺序；个别策略失败不中断整体，
// 但全部失败时返回首个错误（校验类错误优先，便于调用方自纠错）。
type Fanout struct {
	Predictors    []core.Predictor
	Timeout       time.Duration // 每个策略的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string        // primary / mean
}

func (n *Fanout) Name() string        { return "rank.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRank }

type fanoutResult struct {
	priority int
	scores   []*core.CropScore
}

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RequestContext,
	_ []*core.CropScore,
) ([]*core.CropScore, error) {
	if len(n.Predictors) == 0 {
		return nil, core.ModelFailure(core.ModuleModel, errors.New("no predictors configured"))
	}
	if rctx == nil || rctx.Record == nil {
		return nil, core.MissingField(core.ModuleModel, "record")
	}

	var (
		mu      sync.Mutex
		results []fanoutResult
		errs    = make([]error, len(n.Predictors))
		eg, _   = errgroup.WithContext(ctx)
	)

	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, p := range n.Predictors {
		pred := p
		priority := i

		eg.Go(func() error {
			predCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				predCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			scores, err := pred.Predict(predCtx, rctx.Record)
			if err != nil {
				// 单个策略失败不中断其他策略
				errs[priority] = err
				return nil
			}
			for _, cs := range scores {
				cs.PutLabel("rank_source", utils.Label{Value: pred.Name(), Source: "rank"})
			}

			mu.Lock()
			results = append(results, fanoutResult{priority: priority, scores: scores})
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 校验类错误说明输入本身不合法，换一个策略也救不回来；
	// 必须上抛让调用方自纠错，而不是用兜底策略掩盖
	for _, err := range errs {
		if core.IsValidation(err) {
			return nil, err
		}
	}

	if len(results) == 0 {
		return nil, firstError(errs)
	}

	switch n.MergeStrategy {
	case MergeMean:
		return mergeMean(results), nil
	default:
		return mergePrimary(results), nil
	}
}

// firstError 挑选要上抛的错误：校验类错误优先（调用方能自纠错），
// 其次按策略声明顺序取第一个。
func firstError(errs []error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if core.IsValidation(err) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = core.ModelFailure(core.ModuleModel, errors.New("all predictors failed"))
	}
	return first
}

// mergePrimary 取优先级最高（声明顺序最前）的成功结果作为分数来源，
// 其余策略对同名作物只合并 labels，不覆盖分数。
func mergePrimary(results []fanoutResult) []*core.CropScore {
	best := results[0]
	for _, r := range results[1:] {
		if r.priority < best.priority {
			best = r
		}
	}

	byCrop := make(map[string]*core.CropScore, len(best.scores))
	for _, cs := range best.scores {
		byCrop[cs.Crop] = cs
	}
	for _, r := range results {
		if r.priority == best.priority {
			continue
		}
		for _, cs := range r.scores {
			if primary, ok := byCrop[cs.Crop]; ok {
				for k, v := range cs.Labels {
					primary.PutLabel(k, v)
				}
			}
		}
	}
	return best.scores
}

// mergeMean 对出现在多个策略中的作物取分数均值；
// 只出现在部分策略中的作物保留其原分数。顺序按合并后分数重排。
func mergeMean(results []fanoutResult) []*core.CropScore {
	type acc struct {
		score *core.CropScore
		sum   float64
		count int
	}

	// 按优先级遍历，保证首次出现顺序稳定
	ordered := make([]fanoutResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].priority < ordered[j].priority
	})

	byCrop := make(map[string]*acc)
	var order []string
	for _, r := range ordered {
		for _, cs := range r.scores {
			a, ok := byCrop[cs.Crop]
			if !ok {
				byCrop[cs.Crop] = &acc{score: cs, sum: cs.Score, count: 1}
				order = append(order, cs.Crop)
				continue
			}
			a.sum += cs.Score
			a.count++
			for k, v := range cs.Labels {
				a.score.PutLabel(k, v)
			}
		}
	}

	out := make([]*core.CropScore, 0, len(order))
	for _, crop := range order {
		a := byCrop[crop]
		a.score.Score = a.sum / float64(a.count)
		out = append(out, a.score)
	}
	// 稳定降序：同分保持首次出现顺序
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
