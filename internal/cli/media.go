package cli

import (
	"context"
	"encoding/base64"

	"smart-notes-be/internal/dto"

	"github.com/spf13/cobra"
)

var (
	imageMode     string
	audioLanguage string
)

var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Extract text from an image (caption, OCR or document reader)",
	Example: `  notectl image whiteboard.png --mode ocr
  notectl image receipt.jpg --mode document -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.container.AIService.ProcessImage(ctx, &dto.ProcessImageRequest{
			Image: base64.StdEncoding.EncodeToString(data),
			Mode:  imageMode,
		})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, res)
	},
}

var audioCmd = &cobra.Command{
	Use:     "audio <file>",
	Short:   "Transcribe an audio recording",
	Example: `  notectl audio standup.wav --language en`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.container.AIService.ProcessAudio(ctx, &dto.ProcessAudioRequest{
			Audio:    base64.StdEncoding.EncodeToString(data),
			Language: audioLanguage,
		})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, res)
	},
}

func init() {
	rootCmd.AddCommand(imageCmd, audioCmd)

	imageCmd.Flags().StringVar(&imageMode, "mode", "auto", "extraction mode (auto, caption, ocr, document)")
	audioCmd.Flags().StringVar(&audioLanguage, "language", "", "spoken language hint, e.g. en")
}
