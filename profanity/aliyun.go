package profanity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	green "github.com/alibabacloud-go/green-20220302/v2/client"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"

	reviewpipe "github.com/heibot/reviewpipe"
)

// AliyunConfig holds the credentials and endpoint for the Aliyun text
// moderation service.
type AliyunConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	Region          string
	Endpoint        string
	Service         string // Moderation service type, e.g. "comment_detection"
	Timeout         time.Duration
}

// DefaultAliyunConfig returns the default Aliyun configuration.
func DefaultAliyunConfig() AliyunConfig {
	return AliyunConfig{
		Region:   "cn-shanghai",
		Endpoint: "green-cip.cn-shanghai.aliyuncs.com",
		Service:  "comment_detection",
		Timeout:  30 * time.Second,
	}
}

// AliyunDetector is an optional cloud-backed Detector for deployments
// that want service-side coverage beyond the local keyword list. The
// service reports matched words but no positional alignment, so the
// censored rendering masks matched words by local recombination, same
// as the keyword detector.
type AliyunDetector struct {
	config AliyunConfig
	client *green.Client
}

// NewAliyunDetector creates a detector backed by Aliyun text moderation.
func NewAliyunDetector(cfg AliyunConfig) (*AliyunDetector, error) {
	client, err := green.NewClient(&openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
		RegionId:        tea.String(cfg.Region),
		Endpoint:        tea.String(cfg.Endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("init aliyun client: %w", err)
	}
	return &AliyunDetector{config: cfg, client: client}, nil
}

// Check implements Detector. Failures are reported as transient
// collaborator errors so callers can fall back or retry.
func (d *AliyunDetector) Check(ctx context.Context, text string) (reviewpipe.FieldVerdict, error) {
	if text == "" {
		return reviewpipe.FieldVerdict{}, nil
	}

	params, err := json.Marshal(map[string]any{"content": text})
	if err != nil {
		return reviewpipe.FieldVerdict{}, err
	}

	req := &green.TextModerationRequest{
		Service:           tea.String(d.config.Service),
		ServiceParameters: tea.String(string(params)),
	}

	resp, err := d.client.TextModerationWithOptions(req, &util.RuntimeOptions{})
	if err != nil {
		return reviewpipe.FieldVerdict{}, reviewpipe.NewCollaboratorError("aliyun", "text_moderation", err)
	}
	if resp.Body == nil || resp.Body.Code == nil {
		return reviewpipe.FieldVerdict{}, reviewpipe.NewCollaboratorError("aliyun", "text_moderation",
			fmt.Errorf("empty response"))
	}
	if *resp.Body.Code != 200 {
		return reviewpipe.FieldVerdict{}, reviewpipe.NewCollaboratorError("aliyun", "text_moderation",
			fmt.Errorf("code=%d msg=%s", *resp.Body.Code, tea.StringValue(resp.Body.Message)))
	}

	return d.parseVerdict(text, resp.Body), nil
}

func (d *AliyunDetector) parseVerdict(text string, body *green.TextModerationResponseBody) reviewpipe.FieldVerdict {
	if body.Data == nil {
		return reviewpipe.FieldVerdict{CensoredText: text}
	}

	labels := tea.StringValue(body.Data.Labels)
	flagged := labels != "" && labels != "normal" && labels != "nonLabel"
	if !flagged {
		return reviewpipe.FieldVerdict{CensoredText: text}
	}

	// The matched words, when present, arrive inside the reason JSON.
	var words []string
	if reason := tea.StringValue(body.Data.Reason); reason != "" {
		var detail struct {
			RiskWords string `json:"riskWords"`
		}
		if err := json.Unmarshal([]byte(reason), &detail); err == nil && detail.RiskWords != "" {
			for _, w := range strings.Split(detail.RiskWords, ",") {
				if w = strings.TrimSpace(w); w != "" {
					words = append(words, strings.ToLower(w))
				}
			}
		}
	}

	// Censor locally against the reported words so the rendering keeps
	// token alignment with the original text.
	local := NewKeywordDetector(NewVocabulary(words...))
	verdict, _ := local.Check(context.Background(), text)
	verdict.ContainsProfanity = true
	if verdict.CensoredText == "" {
		verdict.CensoredText = text
	}
	return verdict
}
