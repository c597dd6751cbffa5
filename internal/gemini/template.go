package gemini

import "strings"

// fallbackDraft builds a deterministic draft from a fixed template,
// parameterized only by the sector label. It backs every case where
// model output cannot be used and therefore must always produce a full,
// valid draft.
func fallbackDraft(sector string) *Draft {
	return &Draft{
		Title:   "The Future of " + sector + ": Latest Trends and Innovations",
		Content: strings.ReplaceAll(fallbackContentTemplate, "{sector}", sector),
		Snippet: "Explore the latest trends and innovations shaping the future of " + sector +
			", from emerging technologies to industry challenges and solutions.",
		Author: "Industry Expert, " + sector + " Analyst",
	}
}

const fallbackContentTemplate = `Introduction

The {sector} industry is undergoing significant transformation, driven by technological advancements and changing market dynamics. Organizations of every size are rethinking how they deliver value, how they compete, and how they prepare their teams for what comes next. In this comprehensive analysis, we explore the latest developments, challenges, and opportunities shaping the future of {sector}, and what they mean for leaders planning their next strategic moves.

Current Market Analysis

The {sector} sector has experienced remarkable growth in recent years, with market size reaching unprecedented levels across both established and emerging regions. Key players in the industry are driving innovation and setting new standards for excellence, while smaller challengers are finding room to differentiate through focus and speed. Recent market data shows significant growth potential, with analysts predicting continued expansion in the coming years as adoption widens and customer expectations mature. Investment activity remains healthy, and partnerships between incumbents and newer entrants are becoming a defining feature of the competitive landscape.

Emerging Technologies and Innovations

The landscape of {sector} is being reshaped by cutting-edge technologies and breakthrough innovations. From artificial intelligence to advanced analytics, new tools and methodologies are revolutionizing how businesses operate in this space, shortening feedback loops and raising the bar for customer experience. Notable developments include:

- Advanced automation systems that remove repetitive manual work
- Predictive analytics platforms that turn raw data into forward-looking insight
- Deeper integration of emerging technologies into day-to-day operations
- Enhanced security solutions that protect increasingly connected systems

Each of these developments lowers the cost of experimentation, which in turn accelerates the pace at which the whole industry learns and improves.

Industry Challenges and Solutions

While the {sector} industry presents numerous opportunities, it also faces significant challenges that demand deliberate responses. Key issues include:

1. Market volatility and uncertainty that complicate long-range planning
2. Regulatory compliance requirements that continue to evolve
3. Technological integration barriers between legacy and modern systems
4. Talent acquisition and retention in a competitive hiring environment

However, innovative solutions are emerging to address these challenges, including:

- Advanced risk management systems that quantify and contain exposure
- Automated compliance tools that keep pace with changing rules
- Integrated technology platforms that bridge old and new infrastructure
- Enhanced training and development programs that grow skills internally

Organizations that treat these challenges as design constraints rather than blockers consistently outperform peers that wait for conditions to stabilize.

Future Trends and Predictions

Looking ahead, several key trends are expected to shape the future of {sector} over the next decade:

- Increased adoption of AI and machine learning across core workflows
- Greater focus on sustainability and environmental impact in every decision
- Enhanced customer experience delivered through digital transformation
- Integration of blockchain and other emerging technologies where they add real value

The common thread across these trends is a shift from isolated pilot projects toward durable, organization-wide capabilities. The winners will be the companies that build the operational muscle to absorb new technology quickly, rather than those that simply buy it first.

Best Practices and Recommendations

To succeed in the evolving {sector} landscape, organizations should:

1. Invest in cutting-edge technology solutions that align with clear business outcomes
2. Prioritize employee training and development so teams can use new tools well
3. Focus on customer-centric approaches, measuring success by customer results
4. Implement robust security measures across every layer of the stack
5. Maintain compliance with industry regulations as a continuous practice

These practices are mutually reinforcing: better-trained teams adopt technology faster, stronger security builds customer trust, and a compliance-first posture reduces costly surprises down the road.

Conclusion

The future of {sector} holds immense potential, with ongoing developments promising to reshape the industry landscape in ways both expected and surprising. The organizations that thrive will combine a clear strategy with the humility to adapt as the ground shifts beneath them. By staying informed about the latest trends, investing in people as well as technology, and adopting the best practices outlined above, organizations can position themselves for lasting success in this dynamic environment.`
