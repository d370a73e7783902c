package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/m-ohira/custodian/pkg/domain/model"
	"github.com/m-ohira/custodian/pkg/usecase"
)

func TestDescriber_EnrichWorkflowFinding(t *testing.T) {
	ctx := context.Background()
	listing := &model.RepoListing{RootFiles: []string{"go.mod", "main.go"}}
	finding := model.Finding{
		Kind:        model.ArtifactWorkflows,
		Summary:     "Missing CI workflows in acme/widgets",
		Description: "base description",
	}

	t.Run("appends suggested workflow", func(t *testing.T) {
		suggestion := map[string]string{
			"summary":  "Go build and test on pull requests",
			"workflow": "name: ci\non: pull_request\n",
		}
		responseJSON, err := json.Marshal(suggestion)
		gt.NoError(t, err)

		mockClient := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
				return &mock.SessionMock{
					GenerateFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
						return &gollem.Response{Texts: []string{string(responseJSON)}}, nil
					},
				}, nil
			},
		}

		d := usecase.NewDescriber(mockClient)
		enriched := d.EnrichWorkflowFinding(ctx, finding, listing)

		gt.String(t, enriched.Description).Contains("base description")
		gt.String(t, enriched.Description).Contains("name: ci")
		gt.String(t, enriched.Description).Contains("Go build and test on pull requests")
	})

	t.Run("model failure leaves finding unchanged", func(t *testing.T) {
		mockClient := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
				return &mock.SessionMock{
					GenerateFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
						return nil, errors.New("model unavailable")
					},
				}, nil
			},
		}

		d := usecase.NewDescriber(mockClient)
		enriched := d.EnrichWorkflowFinding(ctx, finding, listing)

		gt.Value(t, enriched).Equal(finding)
	})

	t.Run("non-workflow findings pass through", func(t *testing.T) {
		mockClient := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
				t.Error("session should not be created for non-workflow findings")
				return nil, errors.New("unexpected")
			},
		}

		readme := model.Finding{Kind: model.ArtifactReadme, Summary: "Missing README in acme/widgets"}
		d := usecase.NewDescriber(mockClient)
		enriched := d.EnrichWorkflowFinding(ctx, readme, listing)

		gt.Value(t, enriched).Equal(readme)
	})
}
